package usecases

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// fetchResult is one scripted response from mockRatingSource.
type fetchResult struct {
	lookup ports.RatingLookup
	err    error
}

func found(rating float64) fetchResult {
	return fetchResult{lookup: ports.RatingLookup{Found: true, Rating: rating}}
}

func absent() fetchResult {
	return fetchResult{lookup: ports.RatingLookup{Found: false}}
}

func failure(status int) fetchResult {
	return fetchResult{err: &ports.UpstreamError{StatusCode: status, Err: errFake}}
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errFake = fakeError("fake upstream failure")

// mockRatingSource replays scripted results per nickname. Once a script is
// exhausted, its last result repeats. Unknown nicknames are absent.
type mockRatingSource struct {
	mu      sync.Mutex
	scripts map[string][]fetchResult
	calls   []string
}

func newMockRatingSource() *mockRatingSource {
	return &mockRatingSource{scripts: make(map[string][]fetchResult)}
}

func (m *mockRatingSource) script(nickname string, results ...fetchResult) *mockRatingSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[nickname] = results
	return m
}

func (m *mockRatingSource) FetchRating(
	ctx context.Context,
	nickname string,
) (ports.RatingLookup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, nickname)
	if err := ctx.Err(); err != nil {
		return ports.RatingLookup{}, &ports.UpstreamError{Err: err}
	}

	results := m.scripts[nickname]
	if len(results) == 0 {
		return ports.RatingLookup{}, nil
	}
	next := results[0]
	if len(results) > 1 {
		m.scripts[nickname] = results[1:]
	}
	return next.lookup, next.err
}

func (m *mockRatingSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// recordingSleeper records requested delays without waiting.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func (s *recordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.delays)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeGuild is an in-memory role directory and member store for one or more guilds.
type fakeGuild struct {
	mu      sync.Mutex
	nextID  snowflake.ID
	roles   map[snowflake.ID][]domain.Role          // guildID -> roles
	members map[memberKey]map[snowflake.ID]struct{} // member -> held role IDs
	created []ports.RoleSpec

	listCalls   int
	createCalls int
	editCalls   int
	addCalls    int
	removeCalls int

	listErr    error
	createErr  error
	editErr    error
	currentErr error
	addErr     error
	removeErr  error

	// createDelay widens race windows in concurrency tests.
	createDelay time.Duration
	// maxRatingRoles is the highest number of rating roles any member held at once.
	maxRatingRoles int
}

func newFakeGuild() *fakeGuild {
	return &fakeGuild{
		nextID:  1000,
		roles:   make(map[snowflake.ID][]domain.Role),
		members: make(map[memberKey]map[snowflake.ID]struct{}),
	}
}

func (g *fakeGuild) addRole(guildID snowflake.ID, name string, color domain.Color) domain.Role {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addRoleLocked(guildID, name, color)
}

func (g *fakeGuild) addRoleLocked(guildID snowflake.ID, name string, color domain.Color) domain.Role {
	g.nextID++
	role := domain.Role{ID: g.nextID, Name: name, Color: color}
	g.roles[guildID] = append(g.roles[guildID], role)
	return role
}

func (g *fakeGuild) grant(guildID, userID snowflake.ID, roles ...domain.Role) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := memberKey{guildID: guildID, userID: userID}
	if g.members[key] == nil {
		g.members[key] = make(map[snowflake.ID]struct{})
	}
	for _, r := range roles {
		g.members[key][r.ID] = struct{}{}
	}
}

// heldNames returns the sorted names of roles the member holds.
func (g *fakeGuild) heldNames(guildID, userID snowflake.ID) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var names []string
	for _, r := range g.roles[guildID] {
		if _, ok := g.members[memberKey{guildID: guildID, userID: userID}][r.ID]; ok {
			names = append(names, r.Name)
		}
	}
	slices.Sort(names)
	return names
}

func (g *fakeGuild) ListRoles(_ context.Context, guildID snowflake.ID) ([]domain.Role, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return slices.Clone(g.roles[guildID]), nil
}

func (g *fakeGuild) CreateRole(
	_ context.Context,
	guildID snowflake.ID,
	spec ports.RoleSpec,
) (domain.Role, error) {
	if g.createDelay > 0 {
		time.Sleep(g.createDelay)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.createCalls++
	if g.createErr != nil {
		return domain.Role{}, g.createErr
	}
	g.created = append(g.created, spec)
	return g.addRoleLocked(guildID, spec.Name, spec.Color), nil
}

func (g *fakeGuild) EditRoleColor(
	_ context.Context,
	guildID, roleID snowflake.ID,
	color domain.Color,
	_ string,
) (domain.Role, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.editCalls++
	if g.editErr != nil {
		return domain.Role{}, g.editErr
	}
	for i, r := range g.roles[guildID] {
		if r.ID == roleID {
			g.roles[guildID][i].Color = color
			return g.roles[guildID][i], nil
		}
	}
	return domain.Role{}, fakeError("unknown role")
}

func (g *fakeGuild) CurrentRoles(
	_ context.Context,
	guildID, userID snowflake.ID,
) ([]domain.Role, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.currentErr != nil {
		return nil, g.currentErr
	}
	var held []domain.Role
	for _, r := range g.roles[guildID] {
		if _, ok := g.members[memberKey{guildID: guildID, userID: userID}][r.ID]; ok {
			held = append(held, r)
		}
	}
	return held, nil
}

func (g *fakeGuild) AddRoles(
	_ context.Context,
	guildID, userID snowflake.ID,
	roles []domain.Role,
) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addCalls++
	if g.addErr != nil {
		return g.addErr
	}
	key := memberKey{guildID: guildID, userID: userID}
	if g.members[key] == nil {
		g.members[key] = make(map[snowflake.ID]struct{})
	}
	for _, r := range roles {
		g.members[key][r.ID] = struct{}{}
	}
	g.trackRatingRolesLocked(key, guildID)
	return nil
}

func (g *fakeGuild) RemoveRoles(
	_ context.Context,
	guildID, userID snowflake.ID,
	roles []domain.Role,
) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeCalls++
	if g.removeErr != nil {
		return g.removeErr
	}
	key := memberKey{guildID: guildID, userID: userID}
	for _, r := range roles {
		delete(g.members[key], r.ID)
	}
	return nil
}

func (g *fakeGuild) trackRatingRolesLocked(key memberKey, guildID snowflake.ID) {
	count := 0
	for _, r := range g.roles[guildID] {
		if _, ok := g.members[key][r.ID]; ok && r.Kind() == domain.RoleKindRating {
			count++
		}
	}
	if count > g.maxRatingRoles {
		g.maxRatingRoles = count
	}
}

func (g *fakeGuild) counts() (list, create, add, remove int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls, g.createCalls, g.addCalls, g.removeCalls
}

// countingMetrics records observations for assertions.
type countingMetrics struct {
	mu       sync.Mutex
	attempts map[string]int
	hits     int
	misses   int
	created  int
	syncs    map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{attempts: make(map[string]int), syncs: make(map[string]int)}
}

func (m *countingMetrics) RatingLookupAttempt(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[outcome]++
}

func (m *countingMetrics) RoleCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *countingMetrics) RoleCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *countingMetrics) SyncCompleted(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs[outcome]++
}

var (
	_ ports.RatingSource  = (*mockRatingSource)(nil)
	_ ports.RoleDirectory = (*fakeGuild)(nil)
	_ ports.MemberRoles   = (*fakeGuild)(nil)
	_ ports.SyncMetrics   = (*countingMetrics)(nil)
)

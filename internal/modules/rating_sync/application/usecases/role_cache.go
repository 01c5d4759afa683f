package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
	"golang.org/x/sync/singleflight"
)

// DefaultRoleCacheTTL is how long a resolved role handle is trusted.
const DefaultRoleCacheTTL = 5 * time.Minute

// RoleFactory creates a role that was not found in the directory.
type RoleFactory func(ctx context.Context) (domain.Role, error)

type roleCacheKey struct {
	guildID snowflake.ID
	name    string
}

func (k roleCacheKey) String() string {
	return fmt.Sprintf("%d:%s", k.guildID, k.name)
}

type roleCacheEntry struct {
	role     domain.Role
	cachedAt time.Time
}

// RoleCache maps (guild, role name) to role handles for a bounded time.
// The live directory stays the source of truth: a miss or stale entry is
// always re-validated against a fresh listing before anything is created.
type RoleCache struct {
	directory ports.RoleDirectory
	ttl       time.Duration
	now       func() time.Time
	metrics   ports.SyncMetrics

	mu      sync.RWMutex
	entries map[roleCacheKey]roleCacheEntry

	// misses collapses concurrent miss paths for the same key.
	misses singleflight.Group
}

// RoleCacheOption configures a RoleCache.
type RoleCacheOption func(*RoleCache)

// WithClock replaces the clock used for entry ages.
func WithClock(now func() time.Time) RoleCacheOption {
	return func(c *RoleCache) {
		c.now = now
	}
}

// WithCacheMetrics sets the metrics observer.
func WithCacheMetrics(m ports.SyncMetrics) RoleCacheOption {
	return func(c *RoleCache) {
		c.metrics = m
	}
}

// NewRoleCache creates a new RoleCache.
func NewRoleCache(directory ports.RoleDirectory, ttl time.Duration, opts ...RoleCacheOption) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultRoleCacheTTL
	}

	c := &RoleCache{
		directory: directory,
		ttl:       ttl,
		now:       time.Now,
		metrics:   ports.NopSyncMetrics{},
		entries:   make(map[roleCacheKey]roleCacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure returns the role with the given name, creating it with factory if
// the guild has none. Failures are returned as *RoleProvisionError and leave
// the cache unchanged.
func (c *RoleCache) Ensure(
	ctx context.Context,
	guildID snowflake.ID,
	name string,
	factory RoleFactory,
) (domain.Role, error) {
	key := roleCacheKey{guildID: guildID, name: name}

	if role, ok := c.fresh(key); ok {
		c.metrics.RoleCacheLookup(true)
		return role, nil
	}
	c.metrics.RoleCacheLookup(false)

	// The shared miss path outlives any single waiter's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := c.misses.DoChan(key.String(), func() (any, error) {
		return c.resolve(shared, key, factory)
	})

	select {
	case <-ctx.Done():
		return domain.Role{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Role{}, res.Err
		}
		return res.Val.(domain.Role), nil
	}
}

// resolve runs the miss path: live lookup first, then creation.
func (c *RoleCache) resolve(
	ctx context.Context,
	key roleCacheKey,
	factory RoleFactory,
) (domain.Role, error) {
	// Another caller may have filled the entry while we waited to run.
	if role, ok := c.fresh(key); ok {
		return role, nil
	}

	roles, err := c.directory.ListRoles(ctx, key.guildID)
	if err != nil {
		return domain.Role{}, &RoleProvisionError{GuildID: key.guildID, RoleName: key.name, Err: err}
	}

	role, found := domain.FindRoleByName(roles, key.name)
	if !found {
		role, err = factory(ctx)
		if err != nil {
			return domain.Role{}, &RoleProvisionError{
				GuildID:  key.guildID,
				RoleName: key.name,
				Err:      err,
			}
		}
		c.metrics.RoleCreated()
		slog.Info("created role", "guild_id", key.guildID, "role", role.Name,
			"role_id", role.ID, "color", role.Color.Hex())
	}

	c.mu.Lock()
	c.entries[key] = roleCacheEntry{role: role, cachedAt: c.now()}
	c.mu.Unlock()

	return role, nil
}

func (c *RoleCache) fresh(key roleCacheKey) (domain.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		return domain.Role{}, false
	}
	return entry.role, true
}

// Invalidate drops the entry for one role name.
func (c *RoleCache) Invalidate(guildID snowflake.ID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, roleCacheKey{guildID: guildID, name: name})
}

// Clear drops every entry.
func (c *RoleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[roleCacheKey]roleCacheEntry)
	slog.Debug("cleared role cache")
}

// Len returns the number of entries, fresh or stale.
func (c *RoleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

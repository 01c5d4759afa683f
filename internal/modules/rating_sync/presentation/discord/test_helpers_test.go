package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/usecases"
)

// fakeSynchronizer records sync requests and returns a scripted result.
type fakeSynchronizer struct {
	mu      sync.Mutex
	inputs  []usecases.SyncInput
	out     *usecases.SyncOutput
	err     error
	cleared int
}

func (f *fakeSynchronizer) Sync(
	ctx context.Context,
	input usecases.SyncInput,
) (*usecases.SyncOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if _, ok := ctx.Deadline(); !ok {
		panic("sync called without a deadline")
	}
	return f.out, f.err
}

func (f *fakeSynchronizer) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

// fakeRoleNames maps role IDs to names.
type fakeRoleNames map[string]string

func (f fakeRoleNames) RoleNames(_ string, roleIDs []string) []string {
	var names []string
	for _, id := range roleIDs {
		if name, ok := f[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// fakeReplier records typing indicators and replies.
type fakeReplier struct {
	typing  []string
	replies []string
	err     error
}

func (f *fakeReplier) Typing(channelID string) error {
	f.typing = append(f.typing, channelID)
	return nil
}

func (f *fakeReplier) Reply(_ *discordgo.Message, content string) error {
	f.replies = append(f.replies, content)
	return f.err
}

var testRoles = fakeRoleNames{
	"10": "Verified",
	"11": "Member",
}

func newTestGate() *Gate {
	return NewGate(GateConfig{GuildID: testGuildID, OwnerID: testOwnerID})
}

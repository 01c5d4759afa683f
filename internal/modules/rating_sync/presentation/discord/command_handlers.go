package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/bot"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/usecases"
)

// DefaultSyncTimeout bounds a single sync started from a command.
const DefaultSyncTimeout = 30 * time.Second

// Synchronizer runs rating syncs.
type Synchronizer interface {
	Sync(ctx context.Context, input usecases.SyncInput) (*usecases.SyncOutput, error)
	ClearCache()
}

// RoleNameResolver maps a member's role IDs to role names.
type RoleNameResolver interface {
	RoleNames(guildID string, roleIDs []string) []string
}

// StateRoleNames resolves role names from the session state cache.
type StateRoleNames struct {
	session *discordgo.Session
}

// NewStateRoleNames creates a new StateRoleNames.
func NewStateRoleNames(session *discordgo.Session) *StateRoleNames {
	return &StateRoleNames{session: session}
}

// RoleNames returns the names of the roles found in state. Unknown IDs are skipped.
func (r *StateRoleNames) RoleNames(guildID string, roleIDs []string) []string {
	names := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		role, err := r.session.State.Role(guildID, id)
		if err != nil {
			continue
		}
		names = append(names, role.Name)
	}
	return names
}

// CommandHandlers holds the slash command handlers.
type CommandHandlers struct {
	sync    Synchronizer
	gate    *Gate
	roles   RoleNameResolver
	timeout time.Duration
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	sync Synchronizer,
	gate *Gate,
	roles RoleNameResolver,
	timeout time.Duration,
) *CommandHandlers {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &CommandHandlers{
		sync:    sync,
		gate:    gate,
		roles:   roles,
		timeout: timeout,
	}
}

// HandleElo handles the /elo command.
func (h *CommandHandlers) HandleElo(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	input := h.gateInput(i)

	decision := h.gate.Check(input)
	if !decision.Allowed {
		reply := decision.Reply
		if reply == "" {
			reply = "This command can only be used in the server."
		}
		return respondEphemeral(r, reply)
	}

	// Lookups with retries can outlive the interaction acknowledgement window.
	err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	out, err := h.sync.Sync(ctx, usecases.SyncInput{
		GuildID:    input.GuildID,
		UserID:     input.AuthorID,
		Identifier: decision.Identifier,
	})
	logSyncFailure(input, decision.Identifier, err)

	content := syncReply(decision.Identifier, out, err)
	return r.Edit(&discordgo.WebhookEdit{Content: &content})
}

// HandleRefresh handles the /elo-refresh command.
func (h *CommandHandlers) HandleRefresh(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	h.sync.ClearCache()

	slog.Info("cleared role cache", "guild_id", i.GuildID)

	return respondEphemeral(r, "Role cache cleared. The next sync will re-read roles from the server.")
}

func (h *CommandHandlers) gateInput(i *discordgo.InteractionCreate) GateInput {
	input := GateInput{Slash: true}

	if id, err := snowflake.Parse(i.GuildID); err == nil {
		input.GuildID = id
	}

	user := i.User
	if i.Member != nil {
		user = i.Member.User
		input.RoleNames = h.roles.RoleNames(i.GuildID, i.Member.Roles)
	}
	if user != nil {
		if id, err := snowflake.Parse(user.ID); err == nil {
			input.AuthorID = id
		}
		input.Bot = user.Bot
	}

	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "username" {
			input.Content = opt.StringValue()
		}
	}

	return input
}

func respondEphemeral(r bot.Responder, content string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func logSyncFailure(input GateInput, identifier string, err error) {
	if err == nil {
		return
	}
	slog.Warn("failed to sync member",
		"guild_id", input.GuildID,
		"user_id", input.AuthorID,
		"identifier", identifier,
		"error", err,
	)
}

package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/usecases"
)

// MessageReplier sends feedback for prefix commands.
type MessageReplier interface {
	Typing(channelID string) error
	Reply(message *discordgo.Message, content string) error
}

// SessionReplier implements MessageReplier using a Discord session.
type SessionReplier struct {
	session *discordgo.Session
}

// NewSessionReplier creates a new SessionReplier.
func NewSessionReplier(session *discordgo.Session) *SessionReplier {
	return &SessionReplier{session: session}
}

func (r *SessionReplier) Typing(channelID string) error {
	return r.session.ChannelTyping(channelID)
}

func (r *SessionReplier) Reply(message *discordgo.Message, content string) error {
	_, err := r.session.ChannelMessageSendReply(message.ChannelID, content, message.Reference())
	return err
}

// MessageHandler handles the prefix form of the sync command.
type MessageHandler struct {
	sync    Synchronizer
	gate    *Gate
	roles   RoleNameResolver
	replier MessageReplier
	timeout time.Duration
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(
	sync Synchronizer,
	gate *Gate,
	roles RoleNameResolver,
	replier MessageReplier,
	timeout time.Duration,
) *MessageHandler {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &MessageHandler{
		sync:    sync,
		gate:    gate,
		roles:   roles,
		replier: replier,
		timeout: timeout,
	}
}

// HandleMessage is the discordgo event handler for MessageCreate events.
func (h *MessageHandler) HandleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	h.handle(m.Message)
}

func (h *MessageHandler) handle(message *discordgo.Message) {
	if message == nil || message.Author == nil {
		return
	}

	input := h.gateInput(message)
	decision := h.gate.Check(input)
	if !decision.Allowed {
		if decision.Reply != "" {
			h.reply(message, decision.Reply)
		}
		return
	}

	if err := h.replier.Typing(message.ChannelID); err != nil {
		slog.Debug("failed to send typing indicator", "channel_id", message.ChannelID, "error", err)
	}

	slog.Info("processing sync command",
		"guild_id", input.GuildID,
		"user_id", input.AuthorID,
		"identifier", decision.Identifier,
	)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	out, err := h.sync.Sync(ctx, usecases.SyncInput{
		GuildID:    input.GuildID,
		UserID:     input.AuthorID,
		Identifier: decision.Identifier,
	})
	logSyncFailure(input, decision.Identifier, err)

	h.reply(message, syncReply(decision.Identifier, out, err))
}

func (h *MessageHandler) gateInput(message *discordgo.Message) GateInput {
	input := GateInput{
		Bot:     message.Author.Bot,
		System:  message.Type != discordgo.MessageTypeDefault && message.Type != discordgo.MessageTypeReply,
		Content: message.Content,
	}

	if id, err := snowflake.Parse(message.GuildID); err == nil {
		input.GuildID = id
	}
	if id, err := snowflake.Parse(message.Author.ID); err == nil {
		input.AuthorID = id
	}
	if message.Member != nil {
		input.RoleNames = h.roles.RoleNames(message.GuildID, message.Member.Roles)
	}

	return input
}

func (h *MessageHandler) reply(message *discordgo.Message, content string) {
	if err := h.replier.Reply(message, content); err != nil {
		slog.Error("failed to send reply",
			"channel_id", message.ChannelID,
			"message_id", message.ID,
			"error", err,
		)
	}
}

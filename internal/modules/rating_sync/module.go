package rating_sync

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/bot"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/usecases"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/infrastructure"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/presentation/discord"
)

func init() {
	bot.Register(&RatingSyncModule{})
}

// Compile-time interface checks.
var (
	_ bot.ConfigurableModule = (*RatingSyncModule)(nil)
	_ bot.IntentsModule      = (*RatingSyncModule)(nil)
	_ discord.Synchronizer   = (*usecases.Reconciler)(nil)
)

// RatingSyncModule keeps members' rating and tier roles in sync with FACEIT.
type RatingSyncModule struct {
	config          *Config
	reconciler      *usecases.Reconciler
	commandHandlers *discord.CommandHandlers
	messageHandler  *discord.MessageHandler
}

// Name returns the module name.
func (m *RatingSyncModule) Name() string {
	return "rating_sync"
}

// Commands returns the slash commands for this module.
func (m *RatingSyncModule) Commands() []*discordgo.ApplicationCommand {
	maxLength := domain.DefaultMaxIdentifierLength
	if m.config != nil {
		maxLength = m.config.MaxIdentifierLength
	}
	return discord.Commands(maxLength)
}

// CommandHandlers returns the command handlers for this module.
func (m *RatingSyncModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		discord.CommandElo:        m.commandHandlers.HandleElo,
		discord.CommandEloRefresh: m.commandHandlers.HandleRefresh,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *RatingSyncModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.messageHandler.HandleMessage,
	}
}

// Intents returns the gateway intents needed for the prefix command.
func (m *RatingSyncModule) Intents() discordgo.Intent {
	return discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *RatingSyncModule) LoadConfig() error {
	cfg, err := LoadModuleConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *RatingSyncModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}
	cfg := m.config

	var metrics ports.SyncMetrics = ports.NopSyncMetrics{}
	if deps.Metrics != nil {
		prom, err := infrastructure.NewPrometheusSyncMetrics(deps.Metrics)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics = prom
	}

	tiers, err := infrastructure.LoadTierTable(cfg.TierTableFile)
	if err != nil {
		return err
	}

	// Create infrastructure
	faceit := infrastructure.NewFaceitClient(infrastructure.FaceitConfig{
		BaseURL:           cfg.FaceitBaseURL,
		APIKey:            cfg.FaceitAPIKey,
		Timeout:           cfg.FaceitTimeout,
		RequestsPerSecond: cfg.FaceitRequestsPerSecond,
	})
	directory := infrastructure.NewDiscordRoleDirectory(deps.Session)
	members := infrastructure.NewDiscordMemberRoles(deps.Session)

	// Create services
	resolver := usecases.NewRatingResolver(faceit, usecases.RatingResolverConfig{
		Attempts:            cfg.FaceitRetries,
		BaseDelay:           cfg.FaceitRetryBaseDelay,
		MaxIdentifierLength: cfg.MaxIdentifierLength,
	}, usecases.WithResolverMetrics(metrics))
	cache := usecases.NewRoleCache(directory, cfg.RoleCacheTTL, usecases.WithCacheMetrics(metrics))
	m.reconciler = usecases.NewReconciler(
		resolver,
		tiers,
		cache,
		directory,
		members,
		metrics,
	)

	// Create presentation handlers
	gateConfig, err := m.gateConfig(deps.Config)
	if err != nil {
		return err
	}
	gate := discord.NewGate(gateConfig)
	roles := discord.NewStateRoleNames(deps.Session)

	m.commandHandlers = discord.NewCommandHandlers(m.reconciler, gate, roles, cfg.SyncTimeout)
	m.messageHandler = discord.NewMessageHandler(
		m.reconciler,
		gate,
		roles,
		discord.NewSessionReplier(deps.Session),
		cfg.SyncTimeout,
	)

	slog.Info("rating_sync module initialized",
		"prefix", gateConfig.Prefix,
		"allowed_role", gateConfig.AllowedRoleName,
		"cache_ttl", cfg.RoleCacheTTL,
	)

	return nil
}

func (m *RatingSyncModule) gateConfig(botConfig *bot.Config) (discord.GateConfig, error) {
	gateConfig := discord.GateConfig{
		Prefix:          m.config.CommandPrefix,
		AllowedRoleName: m.config.AllowedRoleName,
	}

	if m.config.OwnerID != "" {
		ownerID, err := snowflake.Parse(m.config.OwnerID)
		if err != nil {
			return discord.GateConfig{}, fmt.Errorf("invalid OWNER_ID: %w", err)
		}
		gateConfig.OwnerID = ownerID
	}

	if botConfig != nil && botConfig.GuildID != "" {
		guildID, err := snowflake.Parse(botConfig.GuildID)
		if err != nil {
			return discord.GateConfig{}, fmt.Errorf("invalid GUILD_ID: %w", err)
		}
		gateConfig.GuildID = guildID
	}

	return gateConfig, nil
}

// Shutdown cleans up module resources.
func (m *RatingSyncModule) Shutdown() error {
	if m.reconciler != nil {
		m.reconciler.ClearCache()
	}
	return nil
}

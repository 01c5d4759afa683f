package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/bot"
	_ "github.com/sglre6355/elobot/internal/modules/rating_sync"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/usecases"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/infrastructure"
	"github.com/sglre6355/elobot/internal/observability"
	"github.com/urfave/cli/v2"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/elobot
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// Configure JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := &cli.App{
		Name:    "elobot",
		Usage:   "sync FACEIT ELO ratings to Discord roles",
		Version: version,
		Action:  runBot,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "connect to Discord and serve commands until interrupted",
				Action: runBot,
			},
			newTierCommand("provision-tiers", "create missing tier roles with their colors",
				func(ctx context.Context, p *usecases.TierProvisioner, guildID snowflake.ID) (*usecases.ProvisionOutput, error) {
					return p.ProvisionTiers(ctx, guildID)
				}),
			newTierCommand("recolor-tiers", "fix the colors of existing tier roles",
				func(ctx context.Context, p *usecases.TierProvisioner, guildID snowflake.ID) (*usecases.ProvisionOutput, error) {
					return p.RecolorTiers(ctx, guildID)
				}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("failed to run command", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*bot.Config, error) {
	cfg, err := bot.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))
	return cfg, nil
}

func runBot(c *cli.Context) error {
	slog.Info("starting elobot", "version", version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := observability.NewRegistry()

	// Create and configure bot
	b := bot.NewBot(cfg, bot.WithMetrics(registry))
	b.LoadModules()

	var metricsServer *observability.Server
	if cfg.MetricsAddr != "" {
		metricsServer = observability.NewServer(cfg.MetricsAddr, registry)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// Start bot
	if err := b.Start(); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown metrics server", "error", err)
		}
	}

	slog.Info("completed bot shutdown")
	return nil
}

type tierAction func(
	ctx context.Context,
	p *usecases.TierProvisioner,
	guildID snowflake.ID,
) (*usecases.ProvisionOutput, error)

func newTierCommand(name, usage string, action tierAction) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "guild",
				Usage:   "guild ID to operate on",
				EnvVars: []string{"GUILD_ID"},
			},
			&cli.StringFlag{
				Name:    "tier-table",
				Usage:   "YAML tier table overriding the default",
				EnvVars: []string{"TIER_TABLE_FILE"},
			},
			&cli.DurationFlag{
				Name:  "pause",
				Usage: "pause between role creations",
				Value: usecases.DefaultProvisionPause,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			guildID, err := snowflake.Parse(c.String("guild"))
			if err != nil {
				return fmt.Errorf("invalid --guild %q: %w", c.String("guild"), err)
			}

			tiers, err := infrastructure.LoadTierTable(c.String("tier-table"))
			if err != nil {
				return err
			}

			session, err := discordgo.New("Bot " + cfg.DiscordToken)
			if err != nil {
				return fmt.Errorf("failed to create Discord session: %w", err)
			}

			provisioner := usecases.NewTierProvisioner(
				infrastructure.NewDiscordRoleDirectory(session),
				tiers,
				c.Duration("pause"),
			)

			out, err := action(c.Context, provisioner, guildID)
			if err != nil {
				return err
			}

			for _, role := range out.Created {
				fmt.Printf("created %s (%s)\n", role.Name, role.Color.Hex())
			}
			for _, role := range out.Updated {
				fmt.Printf("recolored %s (%s)\n", role.Name, role.Color.Hex())
			}
			for _, role := range out.Unchanged {
				fmt.Printf("unchanged %s\n", role.Name)
			}
			for _, failure := range out.Failed {
				fmt.Printf("failed %s: %v\n", domain.TierRoleName(failure.Tier), failure.Err)
			}

			if len(out.Failed) > 0 {
				return fmt.Errorf("%d tier roles failed", len(out.Failed))
			}
			return nil
		},
	}
}

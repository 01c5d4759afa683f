package bot

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
	// GuildID scopes command registration and handling to one guild.
	// Empty registers commands globally.
	GuildID     string     `env:"GUILD_ID"     validate:"omitempty,numeric"`
	MetricsAddr string     `env:"METRICS_ADDR" validate:"omitempty,hostname_port"`
	LogLevel    slog.Level `env:"LOG_LEVEL"    envDefault:"INFO"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid bot config: %w", err)
	}

	return cfg, nil
}

package rating_sync

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds the rating sync module configuration.
type Config struct {
	FaceitAPIKey            string        `env:"FACEIT_API_KEY,notEmpty"`
	FaceitBaseURL           string        `env:"FACEIT_BASE_URL"            envDefault:"https://open.faceit.com/data/v4" validate:"url"`
	FaceitTimeout           time.Duration `env:"FACEIT_TIMEOUT"             envDefault:"5s"                              validate:"gt=0"`
	FaceitRetries           int           `env:"FACEIT_RETRIES"             envDefault:"3"                               validate:"gte=1,lte=10"`
	FaceitRetryBaseDelay    time.Duration `env:"FACEIT_RETRY_BASE_DELAY"    envDefault:"1s"                              validate:"gt=0"`
	FaceitRequestsPerSecond float64       `env:"FACEIT_REQUESTS_PER_SECOND" envDefault:"10"                              validate:"gte=0"`

	RoleCacheTTL        time.Duration `env:"ROLE_CACHE_TTL"        envDefault:"5m"       validate:"gt=0"`
	MaxIdentifierLength int           `env:"MAX_IDENTIFIER_LENGTH" envDefault:"50"       validate:"gte=1,lte=100"`
	AllowedRoleName     string        `env:"ALLOWED_ROLE_NAME"     envDefault:"Verified" validate:"required"`
	OwnerID             string        `env:"OWNER_ID"                                    validate:"omitempty,numeric"`
	CommandPrefix       string        `env:"COMMAND_PREFIX"        envDefault:"!elo"     validate:"required"`
	SyncTimeout         time.Duration `env:"SYNC_TIMEOUT"          envDefault:"30s"      validate:"gt=0"`
	// TierTableFile overrides the default tier table with a YAML file.
	TierTableFile string `env:"TIER_TABLE_FILE" validate:"omitempty,file"`
}

// LoadModuleConfig parses and validates the module configuration from the environment.
func LoadModuleConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid rating_sync config: %w", err)
	}
	return cfg, nil
}

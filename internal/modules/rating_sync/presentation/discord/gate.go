package discord

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/disgoorg/snowflake/v2"
)

// Gate defaults.
const (
	DefaultCommandPrefix   = "!elo"
	DefaultAllowedRoleName = "Verified"
)

// GateConfig configures who may run the sync command and where.
type GateConfig struct {
	Prefix          string
	AllowedRoleName string
	// OwnerID may always run the command. Zero disables the fallback.
	OwnerID snowflake.ID
	// GuildID restricts commands to one guild. Zero allows any guild.
	GuildID snowflake.ID
}

// GateInput describes an inbound command before authorization.
type GateInput struct {
	GuildID   snowflake.ID
	AuthorID  snowflake.ID
	Bot       bool
	System    bool
	RoleNames []string
	// Content is the raw message text, or the identifier option for slash commands.
	Content string
	Slash   bool
}

// GateDecision is the outcome of Gate.Check.
// A denied decision with an empty Reply should be ignored silently.
type GateDecision struct {
	Allowed    bool
	Identifier string
	Reply      string
}

// Gate performs authorization and shape checks before a sync reaches the reconciler.
type Gate struct {
	config GateConfig
}

// NewGate creates a new Gate.
func NewGate(config GateConfig) *Gate {
	if config.Prefix == "" {
		config.Prefix = DefaultCommandPrefix
	}
	if config.AllowedRoleName == "" {
		config.AllowedRoleName = DefaultAllowedRoleName
	}
	return &Gate{config: config}
}

// Usage returns the usage line for the prefix command.
func (g *Gate) Usage() string {
	return fmt.Sprintf("Username is required. Usage: `%s <username>`", g.config.Prefix)
}

// Check decides whether input may proceed and extracts its identifier.
func (g *Gate) Check(input GateInput) GateDecision {
	if input.GuildID == 0 || input.Bot || input.System {
		return GateDecision{}
	}
	if g.config.GuildID != 0 && input.GuildID != g.config.GuildID {
		return GateDecision{}
	}

	argument := input.Content
	if !input.Slash {
		rest, ok := g.stripPrefix(input.Content)
		if !ok {
			return GateDecision{}
		}
		argument = rest
	}

	if !g.authorized(input) {
		return GateDecision{
			Reply: fmt.Sprintf("You need the %q role to use this command.", g.config.AllowedRoleName),
		}
	}

	identifier := strings.TrimSpace(argument)
	if identifier == "" {
		return GateDecision{Reply: g.Usage()}
	}

	return GateDecision{Allowed: true, Identifier: identifier}
}

// stripPrefix requires the prefix to be followed by whitespace or the end of the message.
func (g *Gate) stripPrefix(content string) (string, bool) {
	rest, ok := strings.CutPrefix(content, g.config.Prefix)
	if !ok {
		return "", false
	}
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	return rest, true
}

func (g *Gate) authorized(input GateInput) bool {
	if g.config.OwnerID != 0 && input.AuthorID == g.config.OwnerID {
		return true
	}
	return slices.Contains(input.RoleNames, g.config.AllowedRoleName)
}

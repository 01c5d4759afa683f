package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// MemberRoles defines the interface for reading and mutating a member's roles.
// Adding a held role or removing an unheld one is a no-op.
type MemberRoles interface {
	// CurrentRoles returns the roles the member holds right now.
	CurrentRoles(ctx context.Context, guildID, userID snowflake.ID) ([]domain.Role, error)

	// AddRoles grants the given roles to the member.
	AddRoles(ctx context.Context, guildID, userID snowflake.ID, roles []domain.Role) error

	// RemoveRoles revokes the given roles from the member.
	RemoveRoles(ctx context.Context, guildID, userID snowflake.ID, roles []domain.Role) error
}

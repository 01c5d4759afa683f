package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// RoleSpec describes a role to create.
type RoleSpec struct {
	Name   string
	Color  domain.Color
	Reason string
}

// RoleDirectory defines the interface for listing and creating guild roles.
type RoleDirectory interface {
	// ListRoles returns every role currently defined in the guild.
	ListRoles(ctx context.Context, guildID snowflake.ID) ([]domain.Role, error)

	// CreateRole creates a role and returns its handle.
	CreateRole(ctx context.Context, guildID snowflake.ID, spec RoleSpec) (domain.Role, error)

	// EditRoleColor changes the display color of an existing role.
	EditRoleColor(
		ctx context.Context,
		guildID, roleID snowflake.ID,
		color domain.Color,
		reason string,
	) (domain.Role, error)
}

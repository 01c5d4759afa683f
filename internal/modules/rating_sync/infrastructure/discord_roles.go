package infrastructure

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// Ensure the Discord adapters implement their ports.
var (
	_ ports.RoleDirectory = (*DiscordRoleDirectory)(nil)
	_ ports.MemberRoles   = (*DiscordMemberRoles)(nil)
)

// DiscordRoleDirectory implements ports.RoleDirectory using the Discord REST API.
type DiscordRoleDirectory struct {
	session *discordgo.Session
}

// NewDiscordRoleDirectory creates a new DiscordRoleDirectory.
func NewDiscordRoleDirectory(session *discordgo.Session) *DiscordRoleDirectory {
	return &DiscordRoleDirectory{session: session}
}

// ListRoles returns a live listing of the guild's roles.
func (d *DiscordRoleDirectory) ListRoles(
	ctx context.Context,
	guildID snowflake.ID,
) ([]domain.Role, error) {
	roles, err := d.session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list guild roles: %w", err)
	}
	return toDomainRoles(roles)
}

// CreateRole creates a non-hoisted, non-mentionable role.
func (d *DiscordRoleDirectory) CreateRole(
	ctx context.Context,
	guildID snowflake.ID,
	spec ports.RoleSpec,
) (domain.Role, error) {
	color := int(spec.Color)
	hoist, mentionable := false, false

	role, err := d.session.GuildRoleCreate(guildID.String(), &discordgo.RoleParams{
		Name:        spec.Name,
		Color:       &color,
		Hoist:       &hoist,
		Mentionable: &mentionable,
	}, requestOptions(ctx, spec.Reason)...)
	if err != nil {
		return domain.Role{}, fmt.Errorf("failed to create role %q: %w", spec.Name, err)
	}
	return toDomainRole(role)
}

// EditRoleColor changes the color of an existing role.
func (d *DiscordRoleDirectory) EditRoleColor(
	ctx context.Context,
	guildID, roleID snowflake.ID,
	color domain.Color,
	reason string,
) (domain.Role, error) {
	value := int(color)

	role, err := d.session.GuildRoleEdit(guildID.String(), roleID.String(), &discordgo.RoleParams{
		Color: &value,
	}, requestOptions(ctx, reason)...)
	if err != nil {
		return domain.Role{}, fmt.Errorf("failed to edit role %s: %w", roleID, err)
	}
	return toDomainRole(role)
}

// DiscordMemberRoles implements ports.MemberRoles using the Discord REST API.
type DiscordMemberRoles struct {
	session *discordgo.Session
}

// NewDiscordMemberRoles creates a new DiscordMemberRoles.
func NewDiscordMemberRoles(session *discordgo.Session) *DiscordMemberRoles {
	return &DiscordMemberRoles{session: session}
}

// CurrentRoles reads the member's roles fresh from the API.
func (m *DiscordMemberRoles) CurrentRoles(
	ctx context.Context,
	guildID, userID snowflake.ID,
) ([]domain.Role, error) {
	member, err := m.session.GuildMember(guildID.String(), userID.String(),
		discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild member: %w", err)
	}

	// Member payloads only carry role IDs.
	roles, err := m.session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list guild roles: %w", err)
	}

	return heldRoles(member.Roles, roles)
}

// AddRoles grants each role to the member.
func (m *DiscordMemberRoles) AddRoles(
	ctx context.Context,
	guildID, userID snowflake.ID,
	roles []domain.Role,
) error {
	for _, role := range roles {
		err := m.session.GuildMemberRoleAdd(guildID.String(), userID.String(), role.ID.String(),
			discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to add role %q: %w", role.Name, err)
		}
	}
	return nil
}

// RemoveRoles revokes each role from the member.
func (m *DiscordMemberRoles) RemoveRoles(
	ctx context.Context,
	guildID, userID snowflake.ID,
	roles []domain.Role,
) error {
	for _, role := range roles {
		err := m.session.GuildMemberRoleRemove(guildID.String(), userID.String(), role.ID.String(),
			discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to remove role %q: %w", role.Name, err)
		}
	}
	return nil
}

func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts
}

func toDomainRole(role *discordgo.Role) (domain.Role, error) {
	id, err := snowflake.Parse(role.ID)
	if err != nil {
		return domain.Role{}, fmt.Errorf("invalid role ID %q: %w", role.ID, err)
	}
	return domain.Role{
		ID:    id,
		Name:  role.Name,
		Color: domain.Color(role.Color),
	}, nil
}

func toDomainRoles(roles []*discordgo.Role) ([]domain.Role, error) {
	result := make([]domain.Role, 0, len(roles))
	for _, role := range roles {
		r, err := toDomainRole(role)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

// heldRoles resolves member role IDs against the guild's role list.
// IDs missing from the list are skipped.
func heldRoles(memberRoleIDs []string, guildRoles []*discordgo.Role) ([]domain.Role, error) {
	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, role := range guildRoles {
		byID[role.ID] = role
	}

	result := make([]domain.Role, 0, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		role, ok := byID[id]
		if !ok {
			continue
		}
		r, err := toDomainRole(role)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// DefaultProvisionPause spaces out role creations to stay clear of rate limits.
const DefaultProvisionPause = 500 * time.Millisecond

// ProvisionFailure records a tier role that could not be created or edited.
type ProvisionFailure struct {
	Tier domain.Tier
	Err  error
}

// ProvisionOutput contains the result of ProvisionTiers and RecolorTiers.
type ProvisionOutput struct {
	Created   []domain.Role
	Updated   []domain.Role
	Unchanged []domain.Role
	Failed    []ProvisionFailure
}

// TierProvisioner creates and recolors tier roles ahead of any sync.
type TierProvisioner struct {
	directory ports.RoleDirectory
	tiers     *domain.TierTable
	pause     time.Duration
	sleep     Sleeper
}

// NewTierProvisioner creates a new TierProvisioner.
func NewTierProvisioner(
	directory ports.RoleDirectory,
	tiers *domain.TierTable,
	pause time.Duration,
) *TierProvisioner {
	return &TierProvisioner{
		directory: directory,
		tiers:     tiers,
		pause:     pause,
		sleep:     sleepContext,
	}
}

// ProvisionTiers creates every tier role missing from the guild. Existing
// roles are left untouched; individual failures do not stop the run.
func (p *TierProvisioner) ProvisionTiers(
	ctx context.Context,
	guildID snowflake.ID,
) (*ProvisionOutput, error) {
	roles, err := p.directory.ListRoles(ctx, guildID)
	if err != nil {
		return nil, &RoleProvisionError{GuildID: guildID, RoleName: domain.TierRolePrefix + "*", Err: err}
	}

	output := &ProvisionOutput{}
	created := 0
	for _, entry := range p.tiers.Entries() {
		name := domain.TierRoleName(entry.Tier)
		if existing, ok := domain.FindRoleByName(roles, name); ok {
			slog.Info("found existing tier role", "guild_id", guildID, "role", name)
			output.Unchanged = append(output.Unchanged, existing)
			continue
		}

		if created > 0 {
			if err := p.sleep(ctx, p.pause); err != nil {
				return output, err
			}
		}

		role, err := p.directory.CreateRole(ctx, guildID, ports.RoleSpec{
			Name:   name,
			Color:  entry.Color,
			Reason: fmt.Sprintf("Auto-created Tier %d role (rating %d+)", entry.Tier, entry.MinRating),
		})
		if err != nil {
			slog.Error("failed to create tier role", "guild_id", guildID, "role", name, "error", err)
			output.Failed = append(output.Failed, ProvisionFailure{Tier: entry.Tier, Err: err})
			continue
		}
		created++

		slog.Info("created tier role", "guild_id", guildID, "role", name,
			"color", entry.Color.Hex(), "min_rating", entry.MinRating)
		output.Created = append(output.Created, role)
	}

	return output, nil
}

// RecolorTiers resets every existing tier role whose color differs from the table.
func (p *TierProvisioner) RecolorTiers(
	ctx context.Context,
	guildID snowflake.ID,
) (*ProvisionOutput, error) {
	roles, err := p.directory.ListRoles(ctx, guildID)
	if err != nil {
		return nil, &RoleProvisionError{GuildID: guildID, RoleName: domain.TierRolePrefix + "*", Err: err}
	}

	output := &ProvisionOutput{}
	for _, entry := range p.tiers.Entries() {
		name := domain.TierRoleName(entry.Tier)
		existing, ok := domain.FindRoleByName(roles, name)
		if !ok {
			continue
		}
		if existing.Color == entry.Color {
			output.Unchanged = append(output.Unchanged, existing)
			continue
		}

		role, err := p.directory.EditRoleColor(ctx, guildID, existing.ID, entry.Color,
			fmt.Sprintf("Reset Tier %d color to %s", entry.Tier, entry.Color.Hex()))
		if err != nil {
			slog.Error("failed to recolor tier role", "guild_id", guildID, "role", name, "error", err)
			output.Failed = append(output.Failed, ProvisionFailure{Tier: entry.Tier, Err: err})
			continue
		}

		slog.Info("recolored tier role", "guild_id", guildID, "role", name,
			"from", existing.Color.Hex(), "to", entry.Color.Hex())
		output.Updated = append(output.Updated, role)
	}

	return output, nil
}

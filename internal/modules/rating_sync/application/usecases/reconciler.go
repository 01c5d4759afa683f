package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// SyncInput contains the input for the Sync use case.
type SyncInput struct {
	GuildID    snowflake.ID
	UserID     snowflake.ID
	Identifier string
}

// SyncOutput contains the result of the Sync use case.
type SyncOutput struct {
	SyncID     string
	Rating     domain.Rating
	Tier       domain.Tier
	RatingRole domain.Role
	TierRole   domain.Role
	Added      []domain.Role
	Removed    []domain.Role
}

// Reconciler keeps a member's rating and tier roles in line with their rating.
type Reconciler struct {
	resolver  *RatingResolver
	tiers     *domain.TierTable
	cache     *RoleCache
	directory ports.RoleDirectory
	members   ports.MemberRoles
	metrics   ports.SyncMetrics
	locks     *memberLocks
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	resolver *RatingResolver,
	tiers *domain.TierTable,
	cache *RoleCache,
	directory ports.RoleDirectory,
	members ports.MemberRoles,
	metrics ports.SyncMetrics,
) *Reconciler {
	if metrics == nil {
		metrics = ports.NopSyncMetrics{}
	}
	return &Reconciler{
		resolver:  resolver,
		tiers:     tiers,
		cache:     cache,
		directory: directory,
		members:   members,
		metrics:   metrics,
		locks:     newMemberLocks(),
	}
}

// Sync resolves the identifier's rating and converges the member onto exactly
// one rating role and one tier role. Resolver errors are returned unchanged;
// failures after the rating is known are returned as *SyncError.
func (r *Reconciler) Sync(ctx context.Context, input SyncInput) (*SyncOutput, error) {
	start := time.Now()
	syncID := uuid.NewString()
	logger := slog.With(
		"sync_id", syncID,
		"guild_id", input.GuildID,
		"user_id", input.UserID,
	)

	unlock, err := r.locks.lock(ctx, input.GuildID, input.UserID)
	if err != nil {
		r.metrics.SyncCompleted(ports.OutcomeError, time.Since(start))
		return nil, err
	}
	defer unlock()

	rating, err := r.resolver.Resolve(ctx, input.Identifier)
	if err != nil {
		r.metrics.SyncCompleted(resolveOutcome(err), time.Since(start))
		logger.Warn("failed to resolve rating", "identifier", input.Identifier, "error", err)
		return nil, err
	}

	entry := r.tiers.TierFor(rating)
	output, err := r.apply(ctx, input, rating, entry)
	if err != nil {
		r.cache.Invalidate(input.GuildID, domain.RatingRoleName(rating))
		r.cache.Invalidate(input.GuildID, domain.TierRoleName(entry.Tier))
		r.metrics.SyncCompleted(ports.OutcomeError, time.Since(start))
		logger.Error("failed to sync roles", "rating", rating, "tier", entry.Tier, "error", err)
		return nil, &SyncError{Rating: rating, Tier: entry.Tier, Err: err}
	}
	output.SyncID = syncID

	r.metrics.SyncCompleted(ports.OutcomeSuccess, time.Since(start))
	logger.Info("synced roles",
		"identifier", input.Identifier,
		"rating", rating,
		"tier", entry.Tier,
		"added", len(output.Added),
		"removed", len(output.Removed),
	)
	return output, nil
}

// apply ensures both target roles exist and applies the membership delta,
// computed from a fresh read of the member's roles.
func (r *Reconciler) apply(
	ctx context.Context,
	input SyncInput,
	rating domain.Rating,
	entry domain.TierEntry,
) (*SyncOutput, error) {
	ratingName := domain.RatingRoleName(rating)
	ratingRole, err := r.cache.Ensure(ctx, input.GuildID, ratingName,
		r.roleFactory(input.GuildID, ports.RoleSpec{
			Name:   ratingName,
			Color:  domain.NeutralRoleColor,
			Reason: fmt.Sprintf("Auto-created rating role for %d", rating),
		}))
	if err != nil {
		return nil, err
	}

	tierName := domain.TierRoleName(entry.Tier)
	tierRole, err := r.cache.Ensure(ctx, input.GuildID, tierName,
		r.roleFactory(input.GuildID, ports.RoleSpec{
			Name:   tierName,
			Color:  entry.Color,
			Reason: fmt.Sprintf("Auto-created tier role for Tier %d", entry.Tier),
		}))
	if err != nil {
		return nil, err
	}

	current, err := r.members.CurrentRoles(ctx, input.GuildID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMembershipUpdate, err)
	}

	delta := domain.PlanMembership(current, ratingRole, tierRole)

	// Removing first means a cancellation between the two calls can only leave
	// a missing role, never two of the same family.
	if len(delta.Remove) > 0 {
		if err := r.members.RemoveRoles(ctx, input.GuildID, input.UserID, delta.Remove); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMembershipUpdate, err)
		}
	}
	if len(delta.Add) > 0 {
		if err := r.members.AddRoles(ctx, input.GuildID, input.UserID, delta.Add); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMembershipUpdate, err)
		}
	}

	return &SyncOutput{
		Rating:     rating,
		Tier:       entry.Tier,
		RatingRole: ratingRole,
		TierRole:   tierRole,
		Added:      delta.Add,
		Removed:    delta.Remove,
	}, nil
}

func (r *Reconciler) roleFactory(guildID snowflake.ID, spec ports.RoleSpec) RoleFactory {
	return func(ctx context.Context) (domain.Role, error) {
		return r.directory.CreateRole(ctx, guildID, spec)
	}
}

// ClearCache drops every cached role handle.
func (r *Reconciler) ClearCache() {
	r.cache.Clear()
}

func resolveOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return ports.OutcomeNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidData):
		return ports.OutcomeInvalid
	default:
		return ports.OutcomeError
	}
}

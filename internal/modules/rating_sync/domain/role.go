package domain

import (
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// Role name prefixes. Existing guilds already carry roles named this way,
// so the format must not change.
const (
	RatingRolePrefix = "Rating "
	TierRolePrefix   = "Tier "
)

// RoleKind classifies a role by its name.
type RoleKind int

const (
	RoleKindOther RoleKind = iota
	RoleKindRating
	RoleKindTier
)

// String returns the kind name for logs.
func (k RoleKind) String() string {
	switch k {
	case RoleKindRating:
		return "rating"
	case RoleKindTier:
		return "tier"
	default:
		return "other"
	}
}

// Role is a handle to a role owned by the guild's role directory.
type Role struct {
	ID    snowflake.ID
	Name  string
	Color Color
}

// Kind classifies the role by name prefix.
func (r Role) Kind() RoleKind {
	return ClassifyRole(r.Name)
}

// RatingRoleName returns the role name for a rating, e.g. "Rating 1600".
func RatingRoleName(rating Rating) string {
	return RatingRolePrefix + strconv.Itoa(int(rating))
}

// TierRoleName returns the role name for a tier, e.g. "Tier 8".
func TierRoleName(tier Tier) string {
	return TierRolePrefix + strconv.Itoa(int(tier))
}

// ClassifyRole reports which managed family a role name belongs to.
// Roles created by other tooling that happen to share a prefix are treated
// as managed.
func ClassifyRole(name string) RoleKind {
	switch {
	case strings.HasPrefix(name, RatingRolePrefix):
		return RoleKindRating
	case strings.HasPrefix(name, TierRolePrefix):
		return RoleKindTier
	default:
		return RoleKindOther
	}
}

// FindRoleByName returns the first role with the exact name.
func FindRoleByName(roles []Role, name string) (Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

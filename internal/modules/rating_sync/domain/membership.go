package domain

import "github.com/disgoorg/snowflake/v2"

// MembershipDelta is the minimal change that leaves a member holding exactly
// the target rating and tier roles among the managed families.
type MembershipDelta struct {
	Remove []Role
	Add    []Role
}

// IsEmpty reports whether the delta requires no mutation.
func (d MembershipDelta) IsEmpty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// PlanMembership diffs the member's current roles against the targets.
// Every held rating-family role other than ratingRole and every held
// tier-family role other than tierRole is removed; targets not held are added.
func PlanMembership(current []Role, ratingRole, tierRole Role) MembershipDelta {
	var delta MembershipDelta

	held := make(map[snowflake.ID]struct{}, len(current))
	for _, r := range current {
		if _, dup := held[r.ID]; dup {
			continue
		}
		held[r.ID] = struct{}{}

		switch r.Kind() {
		case RoleKindRating:
			if r.ID != ratingRole.ID {
				delta.Remove = append(delta.Remove, r)
			}
		case RoleKindTier:
			if r.ID != tierRole.ID {
				delta.Remove = append(delta.Remove, r)
			}
		}
	}

	for _, target := range []Role{ratingRole, tierRole} {
		if _, ok := held[target.ID]; !ok {
			delta.Add = append(delta.Add, target)
		}
	}

	return delta
}

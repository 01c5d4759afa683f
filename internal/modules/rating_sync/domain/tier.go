package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tier is the discrete 1..10 classification derived from a Rating.
type Tier int

// Tier bounds.
const (
	MinTier Tier = 1
	MaxTier Tier = 10
)

// Color is a 24-bit RGB display color (0xRRGGBB).
type Color int

// NeutralRoleColor is the color given to newly created rating roles.
const NeutralRoleColor Color = 0x99AAB5

// Hex returns the color formatted as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", int(c)&0xFFFFFF)
}

// ErrInvalidColor is returned by ParseColor.
var ErrInvalidColor = errors.New("color must be #rrggbb")

// ParseColor parses "#rrggbb" (the leading # is optional).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// TierEntry maps ratings in [MinRating, next.MinRating) to a tier.
type TierEntry struct {
	Tier      Tier
	MinRating Rating
	Color     Color
}

// TierTable is an ascending, total mapping from ratings to tiers.
type TierTable struct {
	entries []TierEntry
}

// Errors returned by NewTierTable.
var (
	ErrEmptyTierTable    = errors.New("tier table has no entries")
	ErrTierTableNotTotal = errors.New("tier table must start at rating 0")
	ErrTierTableOrder    = errors.New("tier table thresholds must be strictly ascending")
	ErrTierTableTiers    = errors.New("tier table tiers must start at 1, ascend and stay within 1..10")
)

// NewTierTable validates and copies the given entries.
func NewTierTable(entries []TierEntry) (*TierTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTierTable
	}
	if entries[0].MinRating != 0 {
		return nil, ErrTierTableNotTotal
	}
	if entries[0].Tier != MinTier {
		return nil, fmt.Errorf("%w: first tier is %d", ErrTierTableTiers, entries[0].Tier)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Tier <= entries[i-1].Tier || entries[i].Tier > MaxTier {
			return nil, fmt.Errorf("%w: tier %d after %d",
				ErrTierTableTiers, entries[i].Tier, entries[i-1].Tier)
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].MinRating <= entries[i-1].MinRating {
			return nil, fmt.Errorf("%w: entry %d (%d) after %d",
				ErrTierTableOrder, i, entries[i].MinRating, entries[i-1].MinRating)
		}
	}

	cp := make([]TierEntry, len(entries))
	copy(cp, entries)
	return &TierTable{entries: cp}, nil
}

// DefaultTierTable returns the FACEIT CS2 level table.
func DefaultTierTable() *TierTable {
	return &TierTable{entries: []TierEntry{
		{Tier: 1, MinRating: 0, Color: 0xD2D2D2},
		{Tier: 2, MinRating: 501, Color: 0x46E46F},
		{Tier: 3, MinRating: 751, Color: 0x46E46F},
		{Tier: 4, MinRating: 901, Color: 0xFFCD22},
		{Tier: 5, MinRating: 1051, Color: 0xFFCD22},
		{Tier: 6, MinRating: 1201, Color: 0xFFCD22},
		{Tier: 7, MinRating: 1351, Color: 0xFFCD22},
		{Tier: 8, MinRating: 1531, Color: 0xFD6C20},
		{Tier: 9, MinRating: 1751, Color: 0xFD6C20},
		{Tier: 10, MinRating: 2001, Color: 0xE80129},
	}}
}

// TierFor returns the entry with the greatest threshold not exceeding rating.
// Ratings below the first threshold map to the first entry.
func (t *TierTable) TierFor(rating Rating) TierEntry {
	// First index whose threshold is strictly above the rating.
	idx := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].MinRating > rating
	})
	if idx == 0 {
		return t.entries[0]
	}
	return t.entries[idx-1]
}

// Entries returns a copy of the table entries in ascending order.
func (t *TierTable) Entries() []TierEntry {
	cp := make([]TierEntry, len(t.entries))
	copy(cp, t.entries)
	return cp
}

// ColorFor returns the display color of the given tier.
func (t *TierTable) ColorFor(tier Tier) (Color, bool) {
	for _, e := range t.entries {
		if e.Tier == tier {
			return e.Color, true
		}
	}
	return 0, false
}

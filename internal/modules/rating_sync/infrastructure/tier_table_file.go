package infrastructure

import (
	"fmt"
	"os"

	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
	"gopkg.in/yaml.v3"
)

// tierTableFile is the YAML layout of a tier table override:
//
//	tiers:
//	  - tier: 1
//	    min_rating: 0
//	    color: "#d2d2d2"
type tierTableFile struct {
	Tiers []struct {
		Tier      int    `yaml:"tier"`
		MinRating int    `yaml:"min_rating"`
		Color     string `yaml:"color"`
	} `yaml:"tiers"`
}

// LoadTierTable reads a tier table from a YAML file.
// An empty path returns the default table.
func LoadTierTable(path string) (*domain.TierTable, error) {
	if path == "" {
		return domain.DefaultTierTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier table: %w", err)
	}
	return ParseTierTable(data)
}

// ParseTierTable decodes and validates a YAML tier table.
func ParseTierTable(data []byte) (*domain.TierTable, error) {
	var file tierTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tier table: %w", err)
	}

	entries := make([]domain.TierEntry, 0, len(file.Tiers))
	for _, t := range file.Tiers {
		color, err := domain.ParseColor(t.Color)
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", t.Tier, err)
		}
		entries = append(entries, domain.TierEntry{
			Tier:      domain.Tier(t.Tier),
			MinRating: domain.Rating(t.MinRating),
			Color:     color,
		})
	}

	table, err := domain.NewTierTable(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid tier table: %w", err)
	}
	return table, nil
}

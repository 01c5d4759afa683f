package infrastructure

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainRole(t *testing.T) {
	role, err := toDomainRole(&discordgo.Role{ID: "1234", Name: "Tier 8", Color: 0xFD6C20})
	require.NoError(t, err)

	assert.Equal(t, domain.Role{ID: 1234, Name: "Tier 8", Color: 0xFD6C20}, role)
	assert.Equal(t, domain.RoleKindTier, role.Kind())

	_, err = toDomainRole(&discordgo.Role{ID: "not-a-snowflake"})
	assert.Error(t, err)
}

func TestHeldRoles(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "1", Name: "@everyone"},
		{ID: "2", Name: "Rating 1600", Color: int(domain.NeutralRoleColor)},
		{ID: "3", Name: "Tier 8", Color: 0xFD6C20},
		{ID: "4", Name: "Verified"},
	}

	t.Run("resolves member role IDs in member order", func(t *testing.T) {
		held, err := heldRoles([]string{"4", "3", "2"}, guildRoles)
		require.NoError(t, err)

		names := make([]string, 0, len(held))
		for _, role := range held {
			names = append(names, role.Name)
		}
		assert.Equal(t, []string{"Verified", "Tier 8", "Rating 1600"}, names)
	})

	t.Run("skips roles missing from the guild listing", func(t *testing.T) {
		held, err := heldRoles([]string{"99", "3"}, guildRoles)
		require.NoError(t, err)
		require.Len(t, held, 1)
		assert.Equal(t, "Tier 8", held[0].Name)
	})

	t.Run("member without roles", func(t *testing.T) {
		held, err := heldRoles(nil, guildRoles)
		require.NoError(t, err)
		assert.Empty(t, held)
	})
}

func TestRequestOptions(t *testing.T) {
	assert.Len(t, requestOptions(t.Context(), ""), 1)
	assert.Len(t, requestOptions(t.Context(), "Auto-created tier role"), 2)
}

package discord

import "github.com/bwmarrin/discordgo"

// Command names.
const (
	CommandElo        = "elo"
	CommandEloRefresh = "elo-refresh"
)

// Commands returns all slash commands for the rating sync module.
func Commands(maxIdentifierLength int) []*discordgo.ApplicationCommand {
	manageRoles := int64(discordgo.PermissionManageRoles)
	dmPermission := false

	return []*discordgo.ApplicationCommand{
		{
			Name:         CommandElo,
			Description:  "Sync your FACEIT ELO and tier roles",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Your FACEIT nickname",
					Required:    true,
					MaxLength:   maxIdentifierLength,
				},
			},
		},
		{
			Name:                     CommandEloRefresh,
			Description:              "Forget cached rating and tier roles",
			DefaultMemberPermissions: &manageRoles,
			DMPermission:             &dmPermission,
		},
	}
}

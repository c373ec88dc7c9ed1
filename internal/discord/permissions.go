package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/server-herald/internal/config"
)

// IsAdministrator reports whether a user holds administrator privileges in a
// guild, owns it, or is the configured developer. roleIDs are the member's
// roles as carried by the triggering event.
func IsAdministrator(s *discordgo.Session, cfg *config.Config, guildID, userID string, roleIDs []string) bool {
	if cfg != nil && config.IsDeveloper(cfg, userID) {
		return true
	}

	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil || guild == nil {
			return false
		}
	}
	return hasAdministrator(guild, userID, roleIDs)
}

func hasAdministrator(guild *discordgo.Guild, userID string, roleIDs []string) bool {
	if userID == guild.OwnerID {
		return true
	}
	perms := make(map[string]int64, len(guild.Roles))
	for _, r := range guild.Roles {
		perms[r.ID] = r.Permissions
	}
	for _, id := range roleIDs {
		if perms[id]&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}

package utils

import (
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Permission levels
const (
	OwnerPermission = "owner"
	UserPermission  = "user"
)

// CheckPermission returns OwnerPermission for configured owners and
// UserPermission for everyone else.
func CheckPermission(userID string, ownerUserIDs []string) string {
	if userID != "" && slices.Contains(ownerUserIDs, userID) {
		return OwnerPermission
	}
	return UserPermission
}

// IsBotOwner reports whether userID is a configured owner or owns the bot
// application (directly or as a member of the owning team).
func IsBotOwner(s *discordgo.Session, ownerUserIDs []string, userID string) bool {
	if CheckPermission(userID, ownerUserIDs) == OwnerPermission {
		return true
	}
	if s == nil || userID == "" {
		return false
	}
	app, err := s.Application("@me")
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch application owner")
		return false
	}
	if app.Owner != nil && app.Owner.ID == userID {
		return true
	}
	if app.Team != nil {
		for _, m := range app.Team.Members {
			if m.User != nil && m.User.ID == userID {
				return true
			}
		}
	}
	return false
}

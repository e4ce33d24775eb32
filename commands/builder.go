package commands

import (
	"afk-helper/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every global slash command of the bot.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.AFK,
		defs.AFKAdmin,
		defs.SystemInfo,
		defs.ReloadConfig,
	}
}

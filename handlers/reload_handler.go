package handlers

import (
	"afk-helper/bot"
	"afk-helper/utils"

	"github.com/bwmarrin/discordgo"
)

func HandleReloadConfig(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := b.ReloadConfig(); err != nil {
		utils.SendErrorResponse(s, i, "Config reload failed: "+err.Error())
		return
	}
	utils.SendEphemeralResponse(s, i, "✅ Configuration reloaded.")
}

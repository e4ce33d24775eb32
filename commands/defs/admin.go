package defs

import "github.com/bwmarrin/discordgo"

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Display bot and system status information",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.Korean: "봇 및 시스템 상태 정보 표시",
	},
}

var ReloadConfig = &discordgo.ApplicationCommand{
	Name:        "reload-config",
	Description: "Reload AFK defaults from the configuration file (owners only)",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.Korean: "설정 파일에서 기본값 다시 불러오기 (소유자 전용)",
	},
}

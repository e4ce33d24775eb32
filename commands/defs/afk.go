package defs

import "github.com/bwmarrin/discordgo"

func sub(name, description, ko string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		DescriptionLocalizations: map[discordgo.Locale]string{
			discordgo.Korean: ko,
		},
		Options: options,
	}
}

var AFK = &discordgo.ApplicationCommand{
	Name:        "afk",
	Description: "AFK auto-reply for allowed users",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.Korean: "허용된 사용자를 위한 자리비움 자동 응답",
	},
	Options: []*discordgo.ApplicationCommandOption{
		sub("toggle", "Turn your AFK on or off", "자리비움 켜기/끄기"),
		sub("status", "Show your AFK settings", "자리비움 상태 보기"),
		sub("set", "Set your personal AFK message", "개인 자리비움 메시지 설정",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "1-200 characters, at most 3 lines",
				Required:    true,
				MaxLength:   200,
			},
		),
		sub("clearmsg", "Remove your personal AFK message", "개인 자리비움 메시지 삭제"),
		sub("auto", "Go AFK automatically after inactivity", "비활동 시 자동 자리비움",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "duration",
				Description: "e.g. 30m, 2h, 1d. Omit to toggle the timer",
				Required:    false,
			},
		),
		sub("autoclear", "Clear AFK when you send a message", "메시지를 보내면 자리비움 해제",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "on or off. Omit to show the current value",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "on", Value: "on"},
					{Name: "off", Value: "off"},
				},
			},
		),
	},
}

var adminManage = int64(discordgo.PermissionManageGuild)

var AFKAdmin = &discordgo.ApplicationCommand{
	Name:        "afkadmin",
	Description: "Manage AFK allow-list and guild settings (owners only)",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.Korean: "자리비움 허용 목록 및 서버 설정 관리 (소유자 전용)",
	},
	DefaultMemberPermissions: &adminManage,
	Options: []*discordgo.ApplicationCommandOption{
		sub("add", "Allow a user to use AFK", "사용자 허용",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "user",
				Description: "Mention or user ID",
				Required:    true,
			},
		),
		sub("remove", "Remove a user from the allow-list", "허용 목록에서 사용자 제거",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "user",
				Description: "Mention or user ID",
				Required:    true,
			},
		),
		sub("list", "Show the allow-list", "허용 목록 보기"),
		sub("reset", "Reset the allow-list to the default user", "허용 목록 초기화"),
		sub("setdefault", "Set the guild default AFK message", "서버 기본 메시지 설정",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "1-200 characters, at most 3 lines",
				Required:    true,
				MaxLength:   200,
			},
		),
		sub("toggledefault", "Allow or lock editing of the default message", "기본 메시지 편집 허용 전환"),
		sub("togglebots", "Ignore or handle messages from bots", "봇 메시지 무시 전환"),
		sub("toggleoffduty", "Go AFK when the off-duty tag is in a display name", "퇴근 태그 자동 자리비움 전환"),
		sub("logchannel", "Set the audit log channel, omit to disable logging", "감사 로그 채널 설정",
			&discordgo.ApplicationCommandOption{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "channel",
				Description:  "Text channel for audit entries",
				Required:     false,
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			},
		),
		sub("cooldown", "Set the auto-reply cooldown", "자동 응답 쿨다운 설정",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "seconds",
				Description: "0 disables the cooldown",
				Required:    true,
			},
		),
		sub("togglechannelcooldown", "Track the cooldown per channel or globally", "채널별 쿨다운 전환"),
		sub("offdutytag", "Set the off-duty display name tag", "퇴근 태그 설정",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tag",
				Description: "1-32 characters, e.g. [OFF]",
				Required:    true,
				MaxLength:   32,
			},
		),
		sub("settings", "Show the guild AFK settings", "서버 자리비움 설정 보기"),
	},
}

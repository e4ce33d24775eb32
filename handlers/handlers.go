package handlers

import (
	"afk-helper/afk"
	"afk-helper/bot"
	"afk-helper/utils"
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// handlerTimeout bounds the store and Discord work done for one event.
const handlerTimeout = 15 * time.Second

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"afk": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleAFKCommand(s, i, b.Engine)
		},
		"afkadmin": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !b.IsOwner(interactionUserID(i)) {
				utils.SendPermissionDenied(s, i)
				return
			}
			HandleAFKAdminCommand(s, i, b.Engine)
		},
		"system-info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !b.IsOwner(interactionUserID(i)) {
				utils.SendPermissionDenied(s, i)
				return
			}
			SystemInfoHandler(s, i, b)
		},
		"reload-config": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !b.IsOwner(interactionUserID(i)) {
				utils.SendPermissionDenied(s, i)
				return
			}
			HandleReloadConfig(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("logged in")
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		HandleMessageCreate(s, m, b.Engine)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
		HandleGuildMemberUpdate(s, m, b.Engine)
	})
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// respondError maps an engine error to the text shown to the invoker.
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch afk.KindOf(err) {
	case afk.KindStore, afk.KindUnknown:
		log.Error().Err(err).Str("guild", i.GuildID).Str("user", interactionUserID(i)).Msg("command failed")
	}
	utils.SendErrorResponse(s, i, afk.UserMessage(err))
}

func subcommand(i *discordgo.InteractionCreate) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", nil
	}
	sub := data.Options[0]
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		optionMap[opt.Name] = opt
	}
	return sub.Name, optionMap
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

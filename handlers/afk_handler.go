package handlers

import (
	"afk-helper/afk"
	"afk-helper/utils"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HandleAFKCommand runs the self-service /afk subcommands.
func HandleAFKCommand(s *discordgo.Session, i *discordgo.InteractionCreate, engine *afk.Engine) {
	if i.GuildID == "" {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}
	ctx, cancel := handlerContext()
	defer cancel()

	userID := interactionUserID(i)
	name, options := subcommand(i)

	switch name {
	case "toggle":
		res, err := engine.ToggleAFK(ctx, i.GuildID, userID)
		if err != nil {
			respondError(s, i, err)
			return
		}
		if res.Enabled {
			utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ AFK is now **ON**.\nMessage: %s", res.Message))
		} else {
			utils.SendEphemeralResponse(s, i, "✅ AFK is now **OFF**.")
		}

	case "status":
		st, err := engine.Status(ctx, i.GuildID, userID)
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEmbedResponse(s, i, statusEmbed(st))

	case "set":
		msg, err := engine.SetMessage(ctx, i.GuildID, userID, stringOption(options, "message"))
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, "✅ Personal AFK message set:\n"+msg)

	case "clearmsg":
		if err := engine.ClearMessage(ctx, i.GuildID, userID); err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, "✅ Personal AFK message removed. The server default will be used.")

	case "auto":
		res, err := engine.SetAutoAway(ctx, i.GuildID, userID, strings.TrimSpace(stringOption(options, "duration")))
		if err != nil {
			respondError(s, i, err)
			return
		}
		if res.Enabled {
			utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ Auto-away is **ON**: you will be marked AFK after %s without messages.", afk.FormatDuration(res.Seconds)))
		} else {
			utils.SendEphemeralResponse(s, i, "✅ Auto-away is **OFF**.")
		}

	case "autoclear":
		mode := stringOption(options, "mode")
		on, err := engine.SetAutoClear(ctx, i.GuildID, userID, mode)
		if err != nil {
			respondError(s, i, err)
			return
		}
		if mode == "" {
			utils.SendEphemeralResponse(s, i, "Auto-clear on message is "+onOff(on)+".")
		} else {
			utils.SendEphemeralResponse(s, i, "✅ Auto-clear on message is now "+onOff(on)+".")
		}

	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

func statusEmbed(st afk.Status) *discordgo.MessageEmbed {
	message := st.Message
	if !st.HasOverride {
		message += " *(server default)*"
	}
	auto := "OFF"
	if st.AutoAFKSeconds > 0 {
		auto = fmt.Sprintf("%s (%s)", onOff(st.AutoAFKEnabled), afk.FormatDuration(st.AutoAFKSeconds))
	}
	since := "N/A"
	if st.Enabled {
		since = afk.FullTimestamp(st.SinceTS)
	}
	return &discordgo.MessageEmbed{
		Title: "AFK status",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "AFK", Value: onOff(st.Enabled), Inline: true},
			{Name: "Since", Value: since, Inline: true},
			{Name: "Message", Value: message},
			{Name: "Auto-away", Value: auto, Inline: true},
			{Name: "Auto-clear on message", Value: onOff(st.AutoClear), Inline: true},
		},
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

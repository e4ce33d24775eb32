package handlers

import (
	"afk-helper/afk"
	"afk-helper/model"
	"afk-helper/utils"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HandleAFKAdminCommand runs the owner-only /afkadmin subcommands. The caller
// has already checked the owner capability.
func HandleAFKAdminCommand(s *discordgo.Session, i *discordgo.InteractionCreate, engine *afk.Engine) {
	if i.GuildID == "" {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}
	ctx, cancel := handlerContext()
	defer cancel()

	guildID := i.GuildID
	name, options := subcommand(i)

	switch name {
	case "add":
		userID, err := afk.ParseUserRef(stringOption(options, "user"))
		if err != nil {
			respondError(s, i, err)
			return
		}
		if err := engine.AddAllowed(ctx, guildID, userID); err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ <@%s> can now use AFK.", userID))

	case "remove":
		userID, err := afk.ParseUserRef(stringOption(options, "user"))
		if err != nil {
			respondError(s, i, err)
			return
		}
		wasDefault, err := engine.RemoveAllowed(ctx, guildID, userID)
		if err != nil {
			respondError(s, i, err)
			return
		}
		reply := fmt.Sprintf("✅ <@%s> was removed from the allow-list.", userID)
		if wasDefault {
			reply += "\n⚠️ This was the default allowed user. Use `/afkadmin reset` to restore them."
		}
		utils.SendEphemeralResponse(s, i, reply)

	case "list":
		ids, err := engine.ListAllowed(ctx, guildID)
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, formatAllowList(ids))

	case "reset":
		ids, err := engine.ResetAllowed(ctx, guildID)
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, "✅ Allow-list reset.\n"+formatAllowList(ids))

	case "setdefault":
		msg, err := engine.SetDefaultMessage(ctx, guildID, stringOption(options, "message"))
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, "✅ Server default AFK message set:\n"+msg)

	case "toggledefault":
		respondToggle(s, i, "Default message editing")(engine.ToggleDefaultEditable(ctx, guildID))
	case "togglebots":
		respondToggle(s, i, "Ignoring bot messages")(engine.ToggleIgnoreBots(ctx, guildID))
	case "toggleoffduty":
		respondToggle(s, i, "Off-duty auto AFK")(engine.ToggleOffDuty(ctx, guildID))
	case "togglechannelcooldown":
		respondToggle(s, i, "Per-channel cooldown")(engine.TogglePerChannelCooldown(ctx, guildID))

	case "logchannel":
		var channelID string
		if opt, ok := options["channel"]; ok {
			if ch := opt.ChannelValue(nil); ch != nil {
				channelID = ch.ID
			}
		}
		if err := engine.SetLogChannel(ctx, guildID, channelID); err != nil {
			respondError(s, i, err)
			return
		}
		if channelID == "" {
			utils.SendEphemeralResponse(s, i, "✅ Audit logging disabled.")
		} else {
			utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ Audit log channel set to <#%s>.", channelID))
		}

	case "cooldown":
		var secs int64
		if opt, ok := options["seconds"]; ok {
			secs = opt.IntValue()
		}
		if err := engine.SetCooldown(ctx, guildID, secs); err != nil {
			respondError(s, i, err)
			return
		}
		if secs == 0 {
			utils.SendEphemeralResponse(s, i, "✅ Auto-reply cooldown disabled.")
		} else {
			utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ Auto-reply cooldown set to %d seconds.", secs))
		}

	case "offdutytag":
		tag, err := engine.SetOffDutyTag(ctx, guildID, stringOption(options, "tag"))
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ Off-duty tag set to `%s`.", tag))

	case "settings":
		cfg, err := engine.Settings(ctx, guildID)
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEmbedResponse(s, i, settingsEmbed(cfg))

	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

func respondToggle(s *discordgo.Session, i *discordgo.InteractionCreate, label string) func(bool, error) {
	return func(on bool, err error) {
		if err != nil {
			respondError(s, i, err)
			return
		}
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ %s is now %s.", label, onOff(on)))
	}
}

func formatAllowList(ids []string) string {
	if len(ids) == 0 {
		return "The allow-list is empty."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Allowed users (%d/%d):", len(ids), model.MaxAllowedUsers)
	for n, id := range ids {
		fmt.Fprintf(&sb, "\n%d. <@%s> (%s)", n+1, id, id)
	}
	return sb.String()
}

func settingsEmbed(cfg *model.GuildConfig) *discordgo.MessageEmbed {
	logChannel := "disabled"
	if cfg.LoggingEnabled && cfg.LogChannelID != "" {
		logChannel = fmt.Sprintf("<#%s>", cfg.LogChannelID)
	}
	cooldown := "disabled"
	if cfg.CooldownSeconds > 0 {
		scope := "global"
		if cfg.PerChannelCooldown {
			scope = "per channel"
		}
		cooldown = fmt.Sprintf("%ds (%s)", cfg.CooldownSeconds, scope)
	}
	return &discordgo.MessageEmbed{
		Title: "AFK settings",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Default message", Value: cfg.GuildDefaultMessage},
			{Name: "Default message editable", Value: onOff(cfg.EnableOwnerDefaultMessageEdit), Inline: true},
			{Name: "Allowed users", Value: fmt.Sprintf("%d/%d", len(cfg.AllowedUserIDs), model.MaxAllowedUsers), Inline: true},
			{Name: "Active AFK", Value: fmt.Sprintf("%d", cfg.ActiveCount()), Inline: true},
			{Name: "Cooldown", Value: cooldown, Inline: true},
			{Name: "Ignore bots", Value: onOff(cfg.IgnoreBots), Inline: true},
			{Name: "Audit log", Value: logChannel, Inline: true},
			{Name: "Off-duty auto AFK", Value: fmt.Sprintf("%s (`%s`)", onOff(cfg.EnableOffDutyAutoAFK), cfg.OffDutyTag), Inline: true},
		},
	}
}

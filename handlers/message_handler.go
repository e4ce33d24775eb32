package handlers

import (
	"afk-helper/afk"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// HandleMessageCreate feeds guild messages into the AFK engine.
func HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, engine *afk.Engine) {
	ev, ok := messageEvent(m)
	if !ok {
		return
	}
	ctx, cancel := handlerContext()
	defer cancel()

	if err := engine.HandleMessage(ctx, ev); err != nil {
		log.Warn().Err(err).Str("guild", ev.GuildID).Str("channel", ev.ChannelID).Str("message", ev.MessageID).Msg("afk message hook failed")
	}
}

// HandleGuildMemberUpdate marks a member AFK when their display name gains
// the guild's off-duty tag.
func HandleGuildMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate, engine *afk.Engine) {
	if m.Member == nil || m.User == nil || m.User.Bot {
		return
	}
	ctx, cancel := handlerContext()
	defer cancel()

	if _, err := engine.HandleMemberUpdate(ctx, m.GuildID, m.User.ID, displayName(m.Member, m.User)); err != nil {
		log.Warn().Err(err).Str("guild", m.GuildID).Str("user", m.User.ID).Msg("afk member update failed")
	}
}

// messageEvent converts a gateway message. It rejects direct messages,
// webhook posts and system messages.
func messageEvent(m *discordgo.MessageCreate) (afk.MessageEvent, bool) {
	if m == nil || m.Message == nil || m.Author == nil || m.GuildID == "" || m.WebhookID != "" {
		return afk.MessageEvent{}, false
	}
	if m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
		return afk.MessageEvent{}, false
	}

	mentions := make([]afk.Mention, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		if u == nil {
			continue
		}
		mentions = append(mentions, afk.Mention{UserID: u.ID, DisplayName: displayName(nil, u)})
	}

	return afk.MessageEvent{
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		AuthorID:    m.Author.ID,
		AuthorName:  displayName(m.Member, m.Author),
		AuthorIsBot: m.Author.Bot,
		Mentions:    mentions,
	}, true
}

// displayName prefers the guild nickname, then the global display name, then
// the username.
func displayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

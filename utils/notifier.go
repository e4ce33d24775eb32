package utils

import (
	"afk-helper/afk"
	"context"

	"github.com/bwmarrin/discordgo"
)

// SessionNotifier delivers engine messages through a Discord session.
type SessionNotifier struct {
	Session *discordgo.Session
}

func (n *SessionNotifier) Reply(ctx context.Context, channelID, messageID, content string) error {
	_, err := n.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:   content,
		Reference: &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}, discordgo.WithContext(ctx))
	return err
}

func (n *SessionNotifier) Send(ctx context.Context, channelID, content string) error {
	_, err := n.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}, discordgo.WithContext(ctx))
	return err
}

func (n *SessionNotifier) DirectMessage(ctx context.Context, userID, content string) error {
	return SendPrivateMessage(n.Session, userID, content, discordgo.WithContext(ctx))
}

func (n *SessionNotifier) Audit(ctx context.Context, channelID string, entry afk.AuditEntry) error {
	_, err := n.Session.ChannelMessageSendEmbed(channelID, BuildAuditEmbed(entry), discordgo.WithContext(ctx))
	return err
}

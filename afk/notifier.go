package afk

import "context"

// AuditEntry is one line of a guild's audit log.
type AuditEntry struct {
	Action      string
	Description string
	ChannelID   string
	TargetID    string
	MentionerID string
	Result      string
}

// Notifier delivers the engine's outbound messages.
type Notifier interface {
	// Reply answers messageID in channelID.
	Reply(ctx context.Context, channelID, messageID, content string) error
	// Send posts a plain message to channelID.
	Send(ctx context.Context, channelID, content string) error
	// DirectMessage sends content to the user outside the guild.
	DirectMessage(ctx context.Context, userID, content string) error
	// Audit posts entry to the guild's log channel.
	Audit(ctx context.Context, channelID string, entry AuditEntry) error
}

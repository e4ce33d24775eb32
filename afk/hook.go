package afk

import (
	"afk-helper/metrics"
	"afk-helper/model"
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// Mention is one user mentioned by a message, in message order.
type Mention struct {
	UserID      string
	DisplayName string
}

// MessageEvent is an inbound guild message, already stripped of system and
// webhook messages by the caller.
type MessageEvent struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Mentions    []Mention
}

// WelcomeBack is emitted when a user's own message cleared their AFK.
type WelcomeBack struct {
	UserID  string
	SinceTS int64
}

// AutoReply is the reply selected for a mention of an AFK user.
type AutoReply struct {
	TargetID   string
	TargetName string
	Message    string
	SinceTS    int64
}

// Effects lists what a message changed and what must be delivered.
type Effects struct {
	Ignored     bool
	Changed     bool
	OffDuty     bool
	WelcomeBack *WelcomeBack
	Reply       *AutoReply
	// Suppressed is set when an eligible target was found but its cooldown
	// is still running.
	Suppressed bool
}

// Decide applies a message to cfg and returns the resulting effects. It never
// records the auto-reply cooldown; that happens only after delivery succeeds.
func Decide(cfg *model.GuildConfig, ev MessageEvent, now int64) Effects {
	var fx Effects
	if cfg.IgnoreBots && ev.AuthorIsBot {
		fx.Ignored = true
		return fx
	}

	if cfg.IsAllowed(ev.AuthorID) {
		entry := cfg.Entry(ev.AuthorID)
		entry.LastActivityTS = now
		cfg.PutEntry(ev.AuthorID, entry)
		fx.Changed = true

		// A user still wearing the off-duty tag stays away; auto-clear only
		// applies once the tag is gone.
		if PromoteOffDuty(cfg, ev.AuthorID, ev.AuthorName, now) {
			fx.OffDuty = true
		} else if !hasOffDutyTag(cfg, ev.AuthorName) {
			entry = cfg.Entry(ev.AuthorID)
			if entry.Enabled && entry.AutoClearOnMessage {
				since := entry.SinceTS
				entry.Deactivate()
				cfg.PutEntry(ev.AuthorID, entry)
				fx.WelcomeBack = &WelcomeBack{UserID: ev.AuthorID, SinceTS: since}
			}
		}
	}

	fx.Reply, fx.Suppressed = selectReply(cfg, ev, now)
	return fx
}

// selectReply picks the first mentioned user who is not the author, is
// allowed and is away. Later mentions are never considered, even when the
// first target is still cooling down.
func selectReply(cfg *model.GuildConfig, ev MessageEvent, now int64) (*AutoReply, bool) {
	for _, m := range ev.Mentions {
		if m.UserID == ev.AuthorID || !cfg.IsAllowed(m.UserID) {
			continue
		}
		entry, ok := cfg.AFKState[m.UserID]
		if !ok || !entry.Enabled {
			continue
		}
		last := entry.LastAutoReply.Get(ev.ChannelID, cfg.PerChannelCooldown)
		if last+cfg.CooldownSeconds > now {
			return nil, true
		}
		return &AutoReply{
			TargetID:   m.UserID,
			TargetName: m.DisplayName,
			Message:    entry.Message(cfg.GuildDefaultMessage),
			SinceTS:    entry.SinceTS,
		}, false
	}
	return nil, false
}

func hasOffDutyTag(cfg *model.GuildConfig, displayName string) bool {
	return cfg.EnableOffDutyAutoAFK && cfg.OffDutyTag != "" && strings.Contains(displayName, cfg.OffDutyTag)
}

// PromoteOffDuty marks userID away when off-duty auto-away is on, the user is
// allowed, displayName carries the tag and the user is not already away.
func PromoteOffDuty(cfg *model.GuildConfig, userID, displayName string, now int64) bool {
	if !cfg.IsAllowed(userID) || !hasOffDutyTag(cfg, displayName) {
		return false
	}
	entry := cfg.Entry(userID)
	if entry.Enabled {
		return false
	}
	entry.Activate(now)
	cfg.PutEntry(userID, entry)
	return true
}

// HandleMessage runs the message hook for ev.
func (e *Engine) HandleMessage(ctx context.Context, ev MessageEvent) error {
	now := e.now().Unix()
	var fx Effects
	cfg, err := e.update(ctx, ev.GuildID, func(cfg *model.GuildConfig) (bool, error) {
		fx = Decide(cfg, ev, now)
		return fx.Changed, nil
	})
	if err != nil {
		return err
	}
	if fx.Ignored {
		return nil
	}

	if fx.OffDuty {
		metrics.StateChanges.WithLabelValues("offduty").Inc()
		e.audit(ctx, cfg, AuditEntry{Action: "OFFDUTY AFK", Description: "Off-duty tag detected on message", ChannelID: ev.ChannelID, TargetID: ev.AuthorID})
	}

	if wb := fx.WelcomeBack; wb != nil {
		metrics.StateChanges.WithLabelValues("auto_clear").Inc()
		if err := e.deliver(ctx, cfg, ev, WelcomeBackText(wb.UserID, wb.SinceTS, now)); err != nil {
			log.Warn().Err(err).Str("guild", ev.GuildID).Str("user", wb.UserID).Msg("welcome back delivery failed")
		}
		e.audit(ctx, cfg, AuditEntry{Action: "AFK OFF", Description: "AFK cleared by activity", ChannelID: ev.ChannelID, TargetID: wb.UserID})
	}

	if fx.Suppressed {
		metrics.AutoReplies.WithLabelValues("suppressed").Inc()
		return nil
	}
	if fx.Reply == nil {
		return nil
	}
	return e.sendAutoReply(ctx, cfg, ev, *fx.Reply, now)
}

func (e *Engine) sendAutoReply(ctx context.Context, cfg *model.GuildConfig, ev MessageEvent, r AutoReply, now int64) error {
	if err := e.deliver(ctx, cfg, ev, AutoReplyText(r.TargetName, r.Message, r.SinceTS)); err != nil {
		metrics.AutoReplies.WithLabelValues("failed").Inc()
		return err
	}
	metrics.AutoReplies.WithLabelValues("sent").Inc()

	cfg, err := e.update(ctx, ev.GuildID, func(cfg *model.GuildConfig) (bool, error) {
		entry, ok := cfg.AFKState[r.TargetID]
		if !ok || !entry.Enabled {
			return false, nil
		}
		entry.LastAutoReply.Set(ev.ChannelID, cfg.PerChannelCooldown, now)
		cfg.PutEntry(r.TargetID, entry)
		return true, nil
	})
	if err != nil {
		log.Error().Err(err).Str("guild", ev.GuildID).Str("target", r.TargetID).Msg("saving auto-reply cooldown failed")
		return err
	}
	e.audit(ctx, cfg, AuditEntry{
		Action:      "AUTO REPLY",
		Description: "Mention auto-reply sent",
		ChannelID:   ev.ChannelID,
		TargetID:    r.TargetID,
		MentionerID: ev.AuthorID,
		Result:      truncate(r.Message, 100),
	})
	return nil
}

// deliver replies to the triggering message and falls back to a plain post.
func (e *Engine) deliver(ctx context.Context, cfg *model.GuildConfig, ev MessageEvent, content string) error {
	replyErr := e.notifier.Reply(ctx, ev.ChannelID, ev.MessageID, content)
	if replyErr == nil {
		return nil
	}
	log.Debug().Err(replyErr).Str("channel", ev.ChannelID).Msg("reply failed, falling back to channel post")

	sendErr := e.notifier.Send(ctx, ev.ChannelID, content)
	if sendErr == nil {
		return nil
	}
	log.Error().Err(sendErr).Str("guild", ev.GuildID).Str("channel", ev.ChannelID).Msg("reply and channel post both failed")
	e.audit(ctx, cfg, AuditEntry{
		Action:      "ERROR",
		Description: "Reply and channel post failed",
		ChannelID:   ev.ChannelID,
		MentionerID: ev.AuthorID,
		Result:      "Missing permission or delivery failure",
	})
	return &Error{Kind: KindDelivery, Msg: ErrDeliveryFailed.Msg, Err: errors.Join(replyErr, sendErr)}
}

// HandleMemberUpdate promotes a member to AFK when their new display name
// carries the off-duty tag.
func (e *Engine) HandleMemberUpdate(ctx context.Context, guildID, userID, displayName string) (bool, error) {
	now := e.now().Unix()
	var promoted bool
	cfg, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		promoted = PromoteOffDuty(cfg, userID, displayName, now)
		return promoted, nil
	})
	if err != nil {
		return false, err
	}
	if promoted {
		metrics.StateChanges.WithLabelValues("offduty").Inc()
		e.audit(ctx, cfg, AuditEntry{Action: "OFFDUTY AFK", Description: "Off-duty tag detected on display name", TargetID: userID})
	}
	return promoted, nil
}

package afk

import (
	"afk-helper/model"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func awayGuild(perChannel bool, cooldown int64) *model.GuildConfig {
	d := testDefaults()
	d.PerChannelCooldown = perChannel
	d.CooldownSeconds = cooldown
	cfg := model.NewGuildConfig(testGuild, d)
	cfg.AllowedUserIDs = append(cfg.AllowedUserIDs, otherUser)
	entry := model.NewAFKEntry()
	entry.Activate(500)
	cfg.PutEntry(ownerUser, entry)
	return cfg
}

func mentionOf(userID, name string) Mention {
	return Mention{UserID: userID, DisplayName: name}
}

func TestDecideCooldown(t *testing.T) {
	const base = 1000
	tests := []struct {
		name       string
		perChannel bool
		channel    string
		at         int64
		wantReply  bool
	}{
		{"same channel inside cooldown", true, channelA, base + 29, false},
		{"same channel at cooldown end", true, channelA, base + 30, true},
		{"other channel per-channel", true, channelB, base + 1, true},
		{"other channel global", false, channelB, base + 1, false},
		{"global after cooldown", false, channelB, base + 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := awayGuild(tt.perChannel, 30)
			entry := cfg.AFKState[ownerUser]
			entry.LastAutoReply.Set(channelA, tt.perChannel, base)
			cfg.PutEntry(ownerUser, entry)

			fx := Decide(cfg, MessageEvent{
				GuildID:   testGuild,
				ChannelID: tt.channel,
				AuthorID:  mentionUser,
				Mentions:  []Mention{mentionOf(ownerUser, "Owner")},
			}, tt.at)

			if got := fx.Reply != nil; got != tt.wantReply {
				t.Fatalf("reply = %v, want %v", got, tt.wantReply)
			}
			if fx.Suppressed == tt.wantReply {
				t.Errorf("suppressed = %v, want %v", fx.Suppressed, !tt.wantReply)
			}
		})
	}
}

func TestDecideShapeMismatchCountsAsNoRecord(t *testing.T) {
	cfg := awayGuild(true, 30)
	entry := cfg.AFKState[ownerUser]
	entry.LastAutoReply = model.GlobalReply(1000)
	cfg.PutEntry(ownerUser, entry)

	fx := Decide(cfg, MessageEvent{ChannelID: channelA, AuthorID: mentionUser, Mentions: []Mention{mentionOf(ownerUser, "Owner")}}, 1001)
	if fx.Reply == nil {
		t.Fatal("global record blocked a per-channel reply")
	}
}

func TestDecideFirstEligibleMention(t *testing.T) {
	cfg := awayGuild(true, 30)
	away := model.NewAFKEntry()
	away.Activate(600)
	cfg.PutEntry(otherUser, away)

	tests := []struct {
		name     string
		author   string
		mentions []Mention
		want     string
	}{
		{"first away user wins", mentionUser, []Mention{mentionOf(otherUser, "Other"), mentionOf(ownerUser, "Owner")}, otherUser},
		{"skips non-allowed", mentionUser, []Mention{mentionOf("100000000000000009", "Stranger"), mentionOf(ownerUser, "Owner")}, ownerUser},
		{"skips self mention", otherUser, []Mention{mentionOf(otherUser, "Other"), mentionOf(ownerUser, "Owner")}, ownerUser},
		{"no eligible target", mentionUser, []Mention{mentionOf(mentionUser, "Me")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := Decide(cfg.Clone(), MessageEvent{ChannelID: channelA, AuthorID: tt.author, Mentions: tt.mentions}, 2000)
			got := ""
			if fx.Reply != nil {
				got = fx.Reply.TargetID
			}
			if got != tt.want {
				t.Errorf("target = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecideCoolingTargetSuppressesLaterMentions(t *testing.T) {
	cfg := awayGuild(true, 30)
	away := model.NewAFKEntry()
	away.Activate(600)
	cfg.PutEntry(otherUser, away)
	entry := cfg.AFKState[ownerUser]
	entry.LastAutoReply.Set(channelA, true, 1990)
	cfg.PutEntry(ownerUser, entry)

	fx := Decide(cfg, MessageEvent{
		ChannelID: channelA,
		AuthorID:  mentionUser,
		Mentions:  []Mention{mentionOf(ownerUser, "Owner"), mentionOf(otherUser, "Other")},
	}, 2000)
	if fx.Reply != nil || !fx.Suppressed {
		t.Fatalf("effects = %+v, want suppressed without reply", fx)
	}
}

func TestDecideIgnoresBots(t *testing.T) {
	cfg := awayGuild(true, 30)
	fx := Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorIsBot: true, Mentions: []Mention{mentionOf(ownerUser, "Owner")}}, 2000)
	if !fx.Ignored || fx.Changed {
		t.Fatalf("effects = %+v, want ignored", fx)
	}
	if !cfg.AFKState[ownerUser].Enabled {
		t.Error("bot message cleared AFK")
	}

	cfg.IgnoreBots = false
	fx = Decide(cfg, MessageEvent{AuthorID: "100000000000000010", AuthorIsBot: true, ChannelID: channelA, Mentions: []Mention{mentionOf(ownerUser, "Owner")}}, 2000)
	if fx.Ignored || fx.Reply == nil {
		t.Fatalf("effects = %+v, want bot mention answered", fx)
	}
}

func TestDecideAutoClear(t *testing.T) {
	cfg := awayGuild(true, 30)
	fx := Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorName: "Owner", ChannelID: channelA}, 2000)
	if fx.WelcomeBack == nil || fx.WelcomeBack.SinceTS != 500 {
		t.Fatalf("welcome back = %+v, want since 500", fx.WelcomeBack)
	}
	entry := cfg.AFKState[ownerUser]
	if entry.Enabled || entry.LastActivityTS != 2000 {
		t.Errorf("entry = %+v, want cleared with activity 2000", entry)
	}

	cfg = awayGuild(true, 30)
	entry = cfg.AFKState[ownerUser]
	entry.AutoClearOnMessage = false
	cfg.PutEntry(ownerUser, entry)
	fx = Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorName: "Owner", ChannelID: channelA}, 2000)
	if fx.WelcomeBack != nil || !cfg.AFKState[ownerUser].Enabled {
		t.Fatalf("auto clear off still cleared: %+v", fx)
	}
	if !fx.Changed || cfg.AFKState[ownerUser].LastActivityTS != 2000 {
		t.Errorf("activity not tracked when auto clear is off")
	}
}

func TestDecideOffDuty(t *testing.T) {
	cfg := model.NewGuildConfig(testGuild, testDefaults())
	cfg.EnableOffDutyAutoAFK = true

	fx := Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorName: "Owner [OFF]", ChannelID: channelA}, 2000)
	if !fx.OffDuty || fx.WelcomeBack != nil {
		t.Fatalf("effects = %+v, want off-duty activation only", fx)
	}
	if e := cfg.AFKState[ownerUser]; !e.Enabled || e.SinceTS != 2000 {
		t.Fatalf("entry = %+v, want enabled since 2000", e)
	}

	// Still tagged: neither re-activated nor cleared.
	fx = Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorName: "Owner [OFF]", ChannelID: channelA}, 2100)
	if fx.OffDuty || fx.WelcomeBack != nil || !cfg.AFKState[ownerUser].Enabled {
		t.Fatalf("tagged follow-up changed state: %+v", fx)
	}

	fx = Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorName: "Owner", ChannelID: channelA}, 2200)
	if fx.WelcomeBack == nil {
		t.Fatalf("untagged message did not clear AFK")
	}

	cfg.EnableOffDutyAutoAFK = false
	fx = Decide(cfg, MessageEvent{AuthorID: ownerUser, AuthorName: "Owner [OFF]", ChannelID: channelA}, 2300)
	if fx.OffDuty {
		t.Error("off-duty fired while disabled")
	}
}

func TestHandleMessageSendsAndRecordsCooldown(t *testing.T) {
	e, store, notifier, clock := newTestEngine(t)
	ctx := context.Background()

	if err := e.SetLogChannel(ctx, testGuild, channelB); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ToggleAFK(ctx, testGuild, ownerUser); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)

	ev := MessageEvent{
		GuildID:   testGuild,
		ChannelID: channelA,
		MessageID: "800000000000000001",
		AuthorID:  mentionUser,
		Mentions:  []Mention{mentionOf(ownerUser, "Owner")},
	}
	if err := e.HandleMessage(ctx, ev); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(notifier.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(notifier.replies))
	}
	r := notifier.replies[0]
	if r.messageID != ev.MessageID || !strings.Contains(r.content, "Owner is currently AFK.") || !strings.Contains(r.content, "Away for now.") {
		t.Errorf("reply = %+v", r)
	}
	last := store.get(testGuild).AFKState[ownerUser].LastAutoReply.Get(channelA, true)
	if last != clock.Now().Unix() {
		t.Errorf("cooldown = %d, want %d", last, clock.Now().Unix())
	}

	clock.Advance(10 * time.Second)
	if err := e.HandleMessage(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if len(notifier.replies) != 1 {
		t.Errorf("reply sent during cooldown")
	}

	acts := notifier.actions()
	if len(acts) != 2 || acts[0] != "AFK ON" || acts[1] != "AUTO REPLY" {
		t.Errorf("audits = %v", acts)
	}
}

func TestHandleMessageFallsBackToChannelPost(t *testing.T) {
	e, _, notifier, _ := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.ToggleAFK(ctx, testGuild, ownerUser); err != nil {
		t.Fatal(err)
	}
	notifier.replyErr = errors.New("unknown message")

	ev := MessageEvent{GuildID: testGuild, ChannelID: channelA, MessageID: "1", AuthorID: mentionUser, Mentions: []Mention{mentionOf(ownerUser, "Owner")}}
	if err := e.HandleMessage(ctx, ev); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(notifier.posts) != 1 || notifier.posts[0].channelID != channelA {
		t.Fatalf("posts = %+v, want one fallback post", notifier.posts)
	}
}

func TestHandleMessageDeliveryFailure(t *testing.T) {
	e, store, notifier, _ := newTestEngine(t)
	ctx := context.Background()
	if err := e.SetLogChannel(ctx, testGuild, channelB); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ToggleAFK(ctx, testGuild, ownerUser); err != nil {
		t.Fatal(err)
	}
	notifier.replyErr = errors.New("missing access")
	notifier.sendErr = errors.New("missing access")

	ev := MessageEvent{GuildID: testGuild, ChannelID: channelA, MessageID: "1", AuthorID: mentionUser, Mentions: []Mention{mentionOf(ownerUser, "Owner")}}
	err := e.HandleMessage(ctx, ev)
	if KindOf(err) != KindDelivery {
		t.Fatalf("err = %v, want delivery kind", err)
	}
	if !store.get(testGuild).AFKState[ownerUser].LastAutoReply.IsZero() {
		t.Error("cooldown recorded for a failed delivery")
	}
	acts := notifier.actions()
	if acts[len(acts)-1] != "ERROR" {
		t.Errorf("audits = %v, want trailing ERROR", acts)
	}
}

func TestHandleMessageWelcomeBack(t *testing.T) {
	e, store, notifier, clock := newTestEngine(t)
	ctx := context.Background()
	if _, err := e.ToggleAFK(ctx, testGuild, ownerUser); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Hour)

	ev := MessageEvent{GuildID: testGuild, ChannelID: channelA, MessageID: "2", AuthorID: ownerUser, AuthorName: "Owner"}
	if err := e.HandleMessage(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if len(notifier.replies) != 1 || !strings.HasPrefix(notifier.replies[0].content, "Welcome back, <@"+ownerUser+">!") {
		t.Fatalf("replies = %+v", notifier.replies)
	}
	if store.get(testGuild).AFKState[ownerUser].Enabled {
		t.Error("AFK not cleared")
	}
}

func TestHandleMemberUpdate(t *testing.T) {
	e, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	promoted, err := e.HandleMemberUpdate(ctx, testGuild, ownerUser, "Owner [OFF]")
	if err != nil || promoted {
		t.Fatalf("disabled: promoted = %v err = %v", promoted, err)
	}
	if _, err := e.ToggleOffDuty(ctx, testGuild); err != nil {
		t.Fatal(err)
	}
	promoted, err = e.HandleMemberUpdate(ctx, testGuild, otherUser, "Other [OFF]")
	if err != nil || promoted {
		t.Fatalf("non-allowed: promoted = %v err = %v", promoted, err)
	}
	promoted, err = e.HandleMemberUpdate(ctx, testGuild, ownerUser, "Owner [OFF]")
	if err != nil || !promoted {
		t.Fatalf("enabled: promoted = %v err = %v", promoted, err)
	}
	if !store.get(testGuild).AFKState[ownerUser].Enabled {
		t.Error("entry not enabled")
	}
	promoted, _ = e.HandleMemberUpdate(ctx, testGuild, ownerUser, "Owner [OFF]")
	if promoted {
		t.Error("already away user promoted again")
	}
}

package handlers

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestMessageEvent(t *testing.T) {
	base := func() *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			ID:        "m1",
			ChannelID: "c1",
			GuildID:   "g1",
			Type:      discordgo.MessageTypeDefault,
			Author:    &discordgo.User{ID: "a1", Username: "author", GlobalName: "Author"},
			Member:    &discordgo.Member{Nick: "Author [OFF]"},
			Mentions: []*discordgo.User{
				{ID: "t1", Username: "target"},
				{ID: "t2", Username: "second", GlobalName: "Second"},
			},
		}}
	}

	ev, ok := messageEvent(base())
	if !ok {
		t.Fatal("default message rejected")
	}
	if ev.GuildID != "g1" || ev.ChannelID != "c1" || ev.MessageID != "m1" || ev.AuthorID != "a1" {
		t.Errorf("event = %+v", ev)
	}
	if ev.AuthorName != "Author [OFF]" {
		t.Errorf("author name = %q, want nickname", ev.AuthorName)
	}
	if len(ev.Mentions) != 2 || ev.Mentions[0].UserID != "t1" || ev.Mentions[0].DisplayName != "target" || ev.Mentions[1].DisplayName != "Second" {
		t.Errorf("mentions = %+v", ev.Mentions)
	}

	reply := base()
	reply.Type = discordgo.MessageTypeReply
	if _, ok := messageEvent(reply); !ok {
		t.Error("reply message rejected")
	}

	rejects := map[string]func(m *discordgo.MessageCreate){
		"direct message": func(m *discordgo.MessageCreate) { m.GuildID = "" },
		"webhook":        func(m *discordgo.MessageCreate) { m.WebhookID = "w1" },
		"system":         func(m *discordgo.MessageCreate) { m.Type = discordgo.MessageTypeGuildMemberJoin },
		"no author":      func(m *discordgo.MessageCreate) { m.Author = nil },
	}
	for name, mut := range rejects {
		t.Run(name, func(t *testing.T) {
			m := base()
			mut(m)
			if _, ok := messageEvent(m); ok {
				t.Errorf("%s accepted", name)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		member *discordgo.Member
		user   *discordgo.User
		want   string
	}{
		{"nickname", &discordgo.Member{Nick: "Nick"}, &discordgo.User{Username: "u", GlobalName: "G"}, "Nick"},
		{"global name", &discordgo.Member{}, &discordgo.User{Username: "u", GlobalName: "G"}, "G"},
		{"username", nil, &discordgo.User{Username: "u"}, "u"},
		{"nothing", nil, nil, ""},
	}
	for _, tt := range tests {
		if got := displayName(tt.member, tt.user); got != tt.want {
			t.Errorf("%s: displayName = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatAllowList(t *testing.T) {
	if got := formatAllowList(nil); got != "The allow-list is empty." {
		t.Errorf("empty = %q", got)
	}
	got := formatAllowList([]string{"1", "2"})
	if !strings.HasPrefix(got, "Allowed users (2/50):") || !strings.Contains(got, "\n2. <@2> (2)") {
		t.Errorf("list = %q", got)
	}
}

package afk

import (
	"afk-helper/model"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPromoteIdleSkipRules(t *testing.T) {
	const now = 10_000
	idle := func(mut func(e *model.AFKEntry)) model.AFKEntry {
		e := model.NewAFKEntry()
		e.AutoAFKEnabled = true
		e.AutoAFKSeconds = 600
		e.LastActivityTS = now - 600
		if mut != nil {
			mut(&e)
		}
		return e
	}
	tests := []struct {
		name    string
		entry   model.AFKEntry
		allowed bool
		want    bool
	}{
		{"expired exactly", idle(nil), true, true},
		{"one second early", idle(func(e *model.AFKEntry) { e.LastActivityTS = now - 599 }), true, false},
		{"already away", idle(func(e *model.AFKEntry) { e.Activate(1) }), true, false},
		{"timer disabled", idle(func(e *model.AFKEntry) { e.AutoAFKEnabled = false }), true, false},
		{"no duration", idle(func(e *model.AFKEntry) { e.AutoAFKSeconds = 0 }), true, false},
		{"no baseline", idle(func(e *model.AFKEntry) { e.LastActivityTS = 0 }), true, false},
		{"removed from allow-list", idle(nil), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.NewGuildConfig(testGuild, testDefaults())
			if !tt.allowed {
				cfg.AllowedUserIDs = nil
			}
			cfg.PutEntry(ownerUser, tt.entry)

			got := PromoteIdle(cfg, now)
			if (len(got) == 1) != tt.want {
				t.Fatalf("promotions = %+v, want promoted %v", got, tt.want)
			}
			if tt.want {
				e := cfg.AFKState[ownerUser]
				if !e.Enabled || e.SinceTS != now || !e.LastAutoReply.IsZero() {
					t.Errorf("entry = %+v, want enabled since %d", e, now)
				}
			}
		})
	}
}

func TestSweepPromotesAtDeadline(t *testing.T) {
	e, store, notifier, clock := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.SetAutoAway(ctx, testGuild, ownerUser, "10m"); err != nil {
		t.Fatal(err)
	}
	savesBefore := store.saves

	clock.Advance(599 * time.Second)
	n, err := e.Sweep(ctx)
	if err != nil || n != 0 {
		t.Fatalf("early sweep = %d, %v", n, err)
	}
	if store.saves != savesBefore {
		t.Errorf("sweep without promotions saved the guild")
	}

	clock.Advance(time.Second)
	n, err = e.Sweep(ctx)
	if err != nil || n != 1 {
		t.Fatalf("sweep at deadline = %d, %v", n, err)
	}
	if store.saves != savesBefore+1 {
		t.Errorf("saves = %d, want one more", store.saves-savesBefore)
	}
	entry := store.get(testGuild).AFKState[ownerUser]
	if !entry.Enabled || entry.SinceTS != clock.Now().Unix() {
		t.Errorf("entry = %+v", entry)
	}
	if len(notifier.dms) != 1 || notifier.dms[0].channelID != ownerUser || !strings.Contains(notifier.dms[0].content, "10m") {
		t.Errorf("dms = %+v", notifier.dms)
	}

	n, _ = e.Sweep(ctx)
	if n != 0 {
		t.Errorf("second sweep promoted %d", n)
	}
}

func TestSweepDMFailureIsBestEffort(t *testing.T) {
	e, store, notifier, clock := newTestEngine(t)
	ctx := context.Background()
	notifier.dmErr = errors.New("cannot send messages to this user")

	for _, g := range []string{testGuild, "900000000000000002", "900000000000000003"} {
		if _, err := e.SetAutoAway(ctx, g, ownerUser, "1m"); err != nil {
			t.Fatal(err)
		}
	}
	clock.Advance(time.Minute)

	n, err := e.Sweep(ctx)
	if err != nil || n != 3 {
		t.Fatalf("sweep = %d, %v; want 3 promotions", n, err)
	}
	for _, g := range []string{testGuild, "900000000000000002", "900000000000000003"} {
		if !store.get(g).AFKState[ownerUser].Enabled {
			t.Errorf("guild %s not promoted", g)
		}
	}
}

func TestSweepReportsFailedGuilds(t *testing.T) {
	e, store, _, clock := newTestEngine(t)
	ctx := context.Background()
	guilds := []string{testGuild, "900000000000000002", "900000000000000003"}
	for _, g := range guilds {
		if _, err := e.SetAutoAway(ctx, g, ownerUser, "1m"); err != nil {
			t.Fatal(err)
		}
	}
	store.mu.Lock()
	store.failSave = map[string]error{guilds[1]: errors.New("database is locked")}
	store.mu.Unlock()
	clock.Advance(time.Minute)

	n, err := e.Sweep(ctx)
	if n != 2 {
		t.Errorf("promoted = %d, want 2", n)
	}
	var partial *SweepError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want *SweepError", err)
	}
	if len(partial.Guilds) != 1 || partial.Guilds[0] != guilds[1] {
		t.Errorf("failed guilds = %v", partial.Guilds)
	}
	if KindOf(err) != KindStore {
		t.Errorf("kind = %v, want store", KindOf(err))
	}
	if store.get(guilds[1]).AFKState[ownerUser].Enabled {
		t.Error("failed guild was promoted")
	}
}

func TestSweepStoreFailure(t *testing.T) {
	e, store, _, _ := newTestEngine(t)
	store.loadErr = errors.New("locked")
	if _, err := e.Sweep(context.Background()); KindOf(err) != KindStore {
		t.Fatalf("err = %v, want store kind", err)
	}
}

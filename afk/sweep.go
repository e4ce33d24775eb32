package afk

import (
	"afk-helper/metrics"
	"afk-helper/model"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Promotion is one user marked away by the sweep.
type Promotion struct {
	UserID         string
	AutoAFKSeconds int64
}

// PromoteIdle marks every allowed user whose idle timer has expired as away.
// Users are visited in allow-list order.
func PromoteIdle(cfg *model.GuildConfig, now int64) []Promotion {
	var out []Promotion
	for _, userID := range cfg.AllowedUserIDs {
		entry, ok := cfg.AFKState[userID]
		if !ok || entry.Enabled || !entry.AutoAFKEnabled {
			continue
		}
		if entry.AutoAFKSeconds <= 0 || entry.LastActivityTS <= 0 {
			continue
		}
		if now-entry.LastActivityTS < entry.AutoAFKSeconds {
			continue
		}
		entry.Activate(now)
		cfg.PutEntry(userID, entry)
		out = append(out, Promotion{UserID: userID, AutoAFKSeconds: entry.AutoAFKSeconds})
	}
	return out
}

// SweepGuild promotes idle users of one guild, saving at most once, then
// notifies each promoted user by DM on a best-effort basis.
func (e *Engine) SweepGuild(ctx context.Context, guildID string) ([]Promotion, error) {
	now := e.now().Unix()
	var promoted []Promotion
	cfg, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		promoted = PromoteIdle(cfg, now)
		return len(promoted) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range promoted {
		metrics.StateChanges.WithLabelValues("sweep").Inc()
		e.notifyPromotion(ctx, cfg, p)
	}
	return promoted, nil
}

func (e *Engine) notifyPromotion(ctx context.Context, cfg *model.GuildConfig, p Promotion) {
	e.audit(ctx, cfg, AuditEntry{Action: "AUTO AFK", Description: "Idle timer expired", TargetID: p.UserID, Result: FormatDuration(p.AutoAFKSeconds)})

	if err := e.dmLimiter.Wait(ctx); err != nil {
		log.Debug().Err(err).Str("user", p.UserID).Msg("skipping auto-away DM")
		return
	}
	if err := e.notifier.DirectMessage(ctx, p.UserID, AutoAwayNotice(cfg.GuildID, p.AutoAFKSeconds)); err != nil {
		log.Warn().Err(err).Str("guild", cfg.GuildID).Str("user", p.UserID).Msg("auto-away DM failed")
	}
}

// SweepError lists the guilds a sweep could not process.
type SweepError struct {
	Guilds []string
	Err    error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("auto-away sweep failed for %d guild(s) %v: %v", len(e.Guilds), e.Guilds, e.Err)
}

func (e *SweepError) Unwrap() error { return e.Err }

// Sweep runs SweepGuild over every stored guild with a bounded number of
// workers. A failing guild does not stop the others; the failures come back
// as a *SweepError next to the number of users promoted elsewhere.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	ids, err := e.store.GuildIDs(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return 0, storeError(errStoreUnavailable, err)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total  int
		failed []string
		errs   []error
	)
	guard := make(chan struct{}, e.workers)

	for _, guildID := range ids {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		guard <- struct{}{}

		go func(guildID string) {
			defer func() {
				<-guard
				wg.Done()
			}()
			promoted, err := e.SweepGuild(ctx, guildID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error().Err(err).Str("guild", guildID).Msg("auto-away sweep failed")
				failed = append(failed, guildID)
				errs = append(errs, err)
				return
			}
			total += len(promoted)
		}(guildID)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return total, err
	}
	if len(failed) > 0 {
		slices.Sort(failed)
		return total, &SweepError{Guilds: failed, Err: errors.Join(errs...)}
	}
	return total, nil
}

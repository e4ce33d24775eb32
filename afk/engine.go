// Package afk implements the AFK state machine: allow-listed users mark
// themselves away, mentions of them get an automatic reply subject to a
// cooldown, their own messages clear the state, and a periodic sweep marks
// idle users away.
//
// Every mutation loads the whole guild record, changes it and writes it back.
// Engine serializes those read-modify-write cycles per guild so concurrent
// commands, message events and sweeps never lose each other's updates inside
// one process.
package afk

import (
	"afk-helper/metrics"
	"afk-helper/model"
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Engine owns the AFK rules for every guild.
type Engine struct {
	store     Store
	notifier  Notifier
	now       func() time.Time
	dmLimiter *rate.Limiter
	workers   int
	locks     guildLocks
	defaults  atomic.Pointer[model.GuildDefaults]
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDMLimiter throttles the direct messages sent by the sweep.
func WithDMLimiter(l *rate.Limiter) Option {
	return func(e *Engine) { e.dmLimiter = l }
}

// WithSweepWorkers sets how many guilds are swept concurrently.
func WithSweepWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates an engine over store that delivers through notifier.
func NewEngine(store Store, notifier Notifier, defaults model.GuildDefaults, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		notifier:  notifier,
		now:       time.Now,
		dmLimiter: rate.NewLimiter(rate.Inf, 1),
		workers:   5,
	}
	e.defaults.Store(&defaults)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDefaults replaces the settings used for guilds without a stored record.
func (e *Engine) SetDefaults(d model.GuildDefaults) {
	e.defaults.Store(&d)
}

// Defaults returns the current guild defaults.
func (e *Engine) Defaults() model.GuildDefaults {
	return *e.defaults.Load()
}

func (e *Engine) load(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := e.store.LoadGuild(ctx, guildID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("load").Inc()
		return nil, storeError(errStoreUnavailable, err)
	}
	if cfg == nil {
		cfg = model.NewGuildConfig(guildID, e.Defaults())
	}
	if cfg.AFKState == nil {
		cfg.AFKState = make(map[string]model.AFKEntry)
	}
	return cfg, nil
}

// update runs fn against the current record of guildID and saves the result
// when fn reports a change. The returned record reflects fn's mutations.
func (e *Engine) update(ctx context.Context, guildID string, fn func(cfg *model.GuildConfig) (bool, error)) (*model.GuildConfig, error) {
	unlock := e.locks.lock(guildID)
	defer unlock()

	cfg, err := e.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	changed, err := fn(cfg)
	if err != nil {
		return nil, err
	}
	if !changed {
		return cfg, nil
	}
	if err := e.store.SaveGuild(ctx, cfg); err != nil {
		metrics.StoreErrors.WithLabelValues("save").Inc()
		return nil, storeError(errStoreWriteFailed, err)
	}
	return cfg, nil
}

func (e *Engine) audit(ctx context.Context, cfg *model.GuildConfig, entry AuditEntry) {
	if !cfg.LoggingEnabled || cfg.LogChannelID == "" {
		return
	}
	if err := e.notifier.Audit(ctx, cfg.LogChannelID, entry); err != nil {
		log.Warn().Err(err).Str("guild", cfg.GuildID).Str("action", entry.Action).Msg("audit log delivery failed")
	}
}

// Stats reports how many guild records exist and how many users are away.
func (e *Engine) Stats(ctx context.Context) (guilds, active int, err error) {
	ids, err := e.store.GuildIDs(ctx)
	if err != nil {
		return 0, 0, storeError(errStoreUnavailable, err)
	}
	for _, id := range ids {
		cfg, err := e.load(ctx, id)
		if err != nil {
			return 0, 0, err
		}
		active += cfg.ActiveCount()
	}
	return len(ids), active, nil
}

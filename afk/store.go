package afk

import (
	"afk-helper/model"
	"context"
	"sync"
)

// Store persists whole guild records. LoadGuild returns (nil, nil) when the
// guild has never been written. SaveGuild overwrites the entire record.
type Store interface {
	LoadGuild(ctx context.Context, guildID string) (*model.GuildConfig, error)
	SaveGuild(ctx context.Context, cfg *model.GuildConfig) error
	GuildIDs(ctx context.Context) ([]string, error)
}

// guildLocks hands out one mutex per guild so that load, mutate and save of
// the same record never interleave within this process.
type guildLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (g *guildLocks) lock(guildID string) func() {
	g.mu.Lock()
	if g.locks == nil {
		g.locks = make(map[string]*sync.Mutex)
	}
	l, ok := g.locks[guildID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[guildID] = l
	}
	g.mu.Unlock()

	l.Lock()
	return l.Unlock
}

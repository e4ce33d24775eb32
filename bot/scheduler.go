package bot

import (
	"afk-helper/afk"
	"afk-helper/model"
	"afk-helper/utils"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	model.Bot
	GetEngine() *afk.Engine
}

func (b *Bot) GetEngine() *afk.Engine {
	return b.Engine
}

// Scheduler runs the periodic auto-away sweep.
type Scheduler struct {
	bot    BotProvider
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		bot:    bot,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the sweep loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.startSweep()
}

// Stop terminates the sweep loop and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	log.Info().Msg("stopping scheduler")
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) startSweep() {
	defer s.wg.Done()
	interval := s.bot.GetConfig().SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runSweep()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runSweep() {
	promoted, err := s.bot.GetEngine().Sweep(s.ctx)
	var partial *afk.SweepError
	switch {
	case err == nil:
	case errors.As(err, &partial):
		log.Warn().Err(err).Strs("guilds", partial.Guilds).Msg("auto-away sweep skipped guilds")
		if logErr := utils.LogWarn(s.bot.GetSession(), s.bot.GetConfig().LogChannelID, "AFK", "Sweep", partial.Error()); logErr != nil {
			log.Warn().Err(logErr).Msg("failed to send sweep warning log")
		}
	default:
		if s.ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("auto-away sweep failed")
		if logErr := utils.LogError(s.bot.GetSession(), s.bot.GetConfig().LogChannelID, "AFK", "Sweep", err.Error()); logErr != nil {
			log.Warn().Err(logErr).Msg("failed to send sweep error log")
		}
		return
	}
	if promoted > 0 {
		log.Info().Int("promoted", promoted).Msg("auto-away sweep")
		if logErr := utils.LogInfo(s.bot.GetSession(), s.bot.GetConfig().LogChannelID, "AFK", "Sweep", fmt.Sprintf("%d user(s) set AFK after inactivity", promoted)); logErr != nil {
			log.Warn().Err(logErr).Msg("failed to send sweep log")
		}
	}
}

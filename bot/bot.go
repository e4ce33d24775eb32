package bot

import (
	"afk-helper/afk"
	"afk-helper/config"
	"afk-helper/model"
	"afk-helper/utils"
	"afk-helper/utils/database"
	"net/http"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB
	Engine             *afk.Engine
	scheduler          *Scheduler
	metricsServer      *http.Server
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages

	b := &Bot{
		Session: dg,
		DB:      db,
	}
	b.config.Store(cfg)

	b.Engine = afk.NewEngine(
		database.NewGuildStore(db),
		&utils.SessionNotifier{Session: dg},
		cfg.GuildDefaults,
		afk.WithDMLimiter(dmLimiter(cfg)),
	)
	b.scheduler = NewScheduler(b)
	return b, nil
}

func dmLimiter(cfg *model.Config) *rate.Limiter {
	if cfg.DMRatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.DMBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.DMRatePerSecond), burst)
}

// IsOwner reports whether userID may run owner-only commands: a configured
// owner or the owner of the bot application.
func (b *Bot) IsOwner(userID string) bool {
	return utils.IsBotOwner(b.Session, b.GetConfig().OwnerUserIDs, userID)
}

func (b *Bot) Close() {
	log.Info().Msg("gracefully shutting down")
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.metricsServer != nil {
		if err := b.metricsServer.Close(); err != nil {
			log.Warn().Err(err).Msg("metrics server close")
		}
	}
	if err := b.Session.Close(); err != nil {
		log.Warn().Err(err).Msg("session close")
	}
	if err := b.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("database close")
	}
}

// ReloadConfig re-reads the environment and defaults file and applies the new
// guild defaults to the engine. Token and database path changes need a restart.
func (b *Bot) ReloadConfig() error {
	log.Info().Msg("reloading configuration")
	newCfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("error reloading config")
		return err
	}
	old := b.GetConfig()
	newCfg.BotToken = old.BotToken
	newCfg.DatabasePath = old.DatabasePath
	newCfg.MetricsAddr = old.MetricsAddr

	b.config.Store(newCfg)
	b.Engine.SetDefaults(newCfg.GuildDefaults)
	log.Info().Msg("configuration reloaded")
	return nil
}

package bot

import (
	"afk-helper/commands"
	"afk-helper/metrics"
	"afk-helper/utils"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Run opens the gateway, registers the global commands, starts the sweep and
// blocks until SIGINT or SIGTERM.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	cmds := commands.GenerateCommands()
	log.Info().Int("count", len(cmds)).Msg("registering global commands")
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", cmds)
	if err != nil {
		log.Error().Err(err).Msg("cannot register commands")
	} else {
		b.RegisteredCommands = registered
	}

	b.metricsServer = metrics.Serve(b.GetConfig().MetricsAddr)
	b.scheduler.Start()

	log.Info().Msg("bot is now running, press CTRL-C to exit")
	if err := utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "AFK helper has started successfully."); err != nil {
		log.Warn().Err(err).Msg("failed to send startup log")
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

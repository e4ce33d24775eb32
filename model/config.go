package model

import "time"

// Config holds process-wide settings.
type Config struct {
	BotToken        string
	LogChannelID    string
	OwnerUserIDs    []string
	DatabasePath    string
	MetricsAddr     string
	LogLevel        string
	LogPretty       bool
	SweepInterval   time.Duration
	DMRatePerSecond float64
	DMBurst         int
	GuildDefaults   GuildDefaults
}

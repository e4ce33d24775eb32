package config

import (
	"afk-helper/model"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultAllowedUserID is the single user on a fresh allow-list.
const DefaultAllowedUserID = "1173942304927645786"

// DefaultMessage is the guild away message used until an owner changes it.
const DefaultMessage = "잠시 자리를 비웠습니다. 용건은 남겨주시면 확인 후 답장드리겠습니다."

const defaultConfigFile = "data/afk_config.yaml"

// Load loads the configuration from environment variables, an optional .env
// file and an optional defaults file (AFK_CONFIG_FILE).
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, errors.New("BOT_TOKEN environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Warn().Msg("LOG_CHANNEL_ID not set, system log channel disabled")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/afk.db"
	}

	v, err := loadDefaults(os.Getenv("AFK_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	var defaults model.GuildDefaults
	if err := v.Unmarshal(&defaults); err != nil {
		return nil, fmt.Errorf("decode afk defaults: %w", err)
	}
	if defaults.CooldownSeconds < 0 {
		return nil, fmt.Errorf("cooldown_seconds must be >= 0, got %d", defaults.CooldownSeconds)
	}

	sweepInterval := v.GetDuration("sweep_interval")
	if sweepInterval <= 0 {
		log.Warn().Dur("sweep_interval", sweepInterval).Msg("invalid sweep_interval, using 60s")
		sweepInterval = time.Minute
	}

	cfg := &model.Config{
		BotToken:        token,
		LogChannelID:    logChannelID,
		OwnerUserIDs:    splitList(os.Getenv("OWNER_USER_IDS")),
		DatabasePath:    dbPath,
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogPretty:       IsTruthy(os.Getenv("LOG_PRETTY")),
		SweepInterval:   sweepInterval,
		DMRatePerSecond: v.GetFloat64("dm_rate_per_second"),
		DMBurst:         v.GetInt("dm_burst"),
		GuildDefaults:   defaults,
	}
	return cfg, nil
}

// loadDefaults reads the defaults file at path (or the default location) and
// AFK_* environment overrides. A missing file is not an error.
func loadDefaults(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("default_allowed_user_id", DefaultAllowedUserID)
	v.SetDefault("default_message", DefaultMessage)
	v.SetDefault("cooldown_seconds", 30)
	v.SetDefault("per_channel_cooldown", true)
	v.SetDefault("ignore_bots", true)
	v.SetDefault("offduty_tag", "[OFF]")
	v.SetDefault("sweep_interval", "60s")
	v.SetDefault("dm_rate_per_second", 1.0)
	v.SetDefault("dm_burst", 3)

	v.SetEnvPrefix("AFK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = defaultConfigFile
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("afk defaults file not found, using built-in defaults")
			return v, nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read afk defaults %s: %w", path, err)
	}
	log.Info().Str("path", v.ConfigFileUsed()).Msg("loaded afk defaults")
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsTruthy reports whether an environment variable string should be
// considered true ("1", "true", "yes", "y", "on").
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

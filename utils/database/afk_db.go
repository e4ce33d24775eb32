package database

import (
	"afk-helper/model"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitAFKDB opens the AFK database at dbPath and ensures the schema exists.
func InitAFKDB(dbPath string) (*sqlx.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to afk database: %w", err)
	}

	if err := createAFKTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create afk tables: %w", err)
	}

	return db, nil
}

func createAFKTables(db *sqlx.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS afk_guilds (
        guild_id TEXT NOT NULL PRIMARY KEY,
        allowed_user_ids TEXT NOT NULL DEFAULT '[]',
        guild_default_message TEXT NOT NULL DEFAULT '',
        afk_state TEXT NOT NULL DEFAULT '{}',
        cooldown_seconds INTEGER NOT NULL DEFAULT 30,
        per_channel_cooldown BOOLEAN NOT NULL DEFAULT TRUE,
        logging_enabled BOOLEAN NOT NULL DEFAULT FALSE,
        log_channel_id TEXT NOT NULL DEFAULT '',
        enable_owner_default_message_edit BOOLEAN NOT NULL DEFAULT FALSE,
        ignore_bots BOOLEAN NOT NULL DEFAULT TRUE,
        enable_offduty_autofk BOOLEAN NOT NULL DEFAULT FALSE,
        offduty_tag TEXT NOT NULL DEFAULT '',
        updated_at INTEGER NOT NULL DEFAULT 0
    );`
	_, err := db.Exec(schema)
	return err
}

// guildRow is the stored shape of a guild record.
type guildRow struct {
	GuildID                       string `db:"guild_id"`
	AllowedUserIDs                string `db:"allowed_user_ids"`
	GuildDefaultMessage           string `db:"guild_default_message"`
	AFKState                      string `db:"afk_state"`
	CooldownSeconds               int64  `db:"cooldown_seconds"`
	PerChannelCooldown            bool   `db:"per_channel_cooldown"`
	LoggingEnabled                bool   `db:"logging_enabled"`
	LogChannelID                  string `db:"log_channel_id"`
	EnableOwnerDefaultMessageEdit bool   `db:"enable_owner_default_message_edit"`
	IgnoreBots                    bool   `db:"ignore_bots"`
	EnableOffDutyAutoAFK          bool   `db:"enable_offduty_autofk"`
	OffDutyTag                    string `db:"offduty_tag"`
	UpdatedAt                     int64  `db:"updated_at"`
}

func (r guildRow) toConfig() (*model.GuildConfig, error) {
	cfg := &model.GuildConfig{
		GuildID:                       r.GuildID,
		GuildDefaultMessage:           r.GuildDefaultMessage,
		CooldownSeconds:               r.CooldownSeconds,
		PerChannelCooldown:            r.PerChannelCooldown,
		LoggingEnabled:                r.LoggingEnabled,
		LogChannelID:                  r.LogChannelID,
		EnableOwnerDefaultMessageEdit: r.EnableOwnerDefaultMessageEdit,
		IgnoreBots:                    r.IgnoreBots,
		EnableOffDutyAutoAFK:          r.EnableOffDutyAutoAFK,
		OffDutyTag:                    r.OffDutyTag,
	}
	if err := json.Unmarshal([]byte(r.AllowedUserIDs), &cfg.AllowedUserIDs); err != nil {
		return nil, fmt.Errorf("decode allowed_user_ids for guild %s: %w", r.GuildID, err)
	}
	if err := json.Unmarshal([]byte(r.AFKState), &cfg.AFKState); err != nil {
		return nil, fmt.Errorf("decode afk_state for guild %s: %w", r.GuildID, err)
	}
	if cfg.AllowedUserIDs == nil {
		cfg.AllowedUserIDs = []string{}
	}
	if cfg.AFKState == nil {
		cfg.AFKState = make(map[string]model.AFKEntry)
	}
	return cfg, nil
}

func rowFromConfig(cfg *model.GuildConfig, now time.Time) (guildRow, error) {
	allowed := cfg.AllowedUserIDs
	if allowed == nil {
		allowed = []string{}
	}
	allowedJSON, err := json.Marshal(allowed)
	if err != nil {
		return guildRow{}, fmt.Errorf("encode allowed_user_ids: %w", err)
	}
	state := cfg.AFKState
	if state == nil {
		state = map[string]model.AFKEntry{}
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return guildRow{}, fmt.Errorf("encode afk_state: %w", err)
	}
	return guildRow{
		GuildID:                       cfg.GuildID,
		AllowedUserIDs:                string(allowedJSON),
		GuildDefaultMessage:           cfg.GuildDefaultMessage,
		AFKState:                      string(stateJSON),
		CooldownSeconds:               cfg.CooldownSeconds,
		PerChannelCooldown:            cfg.PerChannelCooldown,
		LoggingEnabled:                cfg.LoggingEnabled,
		LogChannelID:                  cfg.LogChannelID,
		EnableOwnerDefaultMessageEdit: cfg.EnableOwnerDefaultMessageEdit,
		IgnoreBots:                    cfg.IgnoreBots,
		EnableOffDutyAutoAFK:          cfg.EnableOffDutyAutoAFK,
		OffDutyTag:                    cfg.OffDutyTag,
		UpdatedAt:                     now.Unix(),
	}, nil
}

// GuildStore keeps one row per guild. Every save replaces the whole row.
type GuildStore struct {
	db *sqlx.DB
}

// NewGuildStore wraps an initialized AFK database.
func NewGuildStore(db *sqlx.DB) *GuildStore {
	return &GuildStore{db: db}
}

// LoadGuild returns the stored record of guildID, or nil if there is none.
func (s *GuildStore) LoadGuild(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	var row guildRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM afk_guilds WHERE guild_id = ?", guildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load afk record for guild %s: %w", guildID, err)
	}
	return row.toConfig()
}

// SaveGuild writes cfg, replacing any previous record of the guild.
func (s *GuildStore) SaveGuild(ctx context.Context, cfg *model.GuildConfig) error {
	row, err := rowFromConfig(cfg, time.Now())
	if err != nil {
		return err
	}
	query := `
    INSERT INTO afk_guilds (guild_id, allowed_user_ids, guild_default_message, afk_state, cooldown_seconds,
        per_channel_cooldown, logging_enabled, log_channel_id, enable_owner_default_message_edit, ignore_bots,
        enable_offduty_autofk, offduty_tag, updated_at)
    VALUES (:guild_id, :allowed_user_ids, :guild_default_message, :afk_state, :cooldown_seconds,
        :per_channel_cooldown, :logging_enabled, :log_channel_id, :enable_owner_default_message_edit, :ignore_bots,
        :enable_offduty_autofk, :offduty_tag, :updated_at)
    ON CONFLICT(guild_id) DO UPDATE SET
        allowed_user_ids = excluded.allowed_user_ids,
        guild_default_message = excluded.guild_default_message,
        afk_state = excluded.afk_state,
        cooldown_seconds = excluded.cooldown_seconds,
        per_channel_cooldown = excluded.per_channel_cooldown,
        logging_enabled = excluded.logging_enabled,
        log_channel_id = excluded.log_channel_id,
        enable_owner_default_message_edit = excluded.enable_owner_default_message_edit,
        ignore_bots = excluded.ignore_bots,
        enable_offduty_autofk = excluded.enable_offduty_autofk,
        offduty_tag = excluded.offduty_tag,
        updated_at = excluded.updated_at;`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save afk record for guild %s: %w", cfg.GuildID, err)
	}
	return nil
}

// GuildIDs lists every guild with a stored record.
func (s *GuildStore) GuildIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, "SELECT guild_id FROM afk_guilds ORDER BY guild_id"); err != nil {
		return nil, fmt.Errorf("failed to list afk guilds: %w", err)
	}
	return ids, nil
}

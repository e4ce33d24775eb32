package afk

import (
	"afk-helper/metrics"
	"afk-helper/model"
	"context"
)

// ToggleResult describes the entry after ToggleAFK.
type ToggleResult struct {
	Enabled bool
	SinceTS int64
	Message string
}

// Status is the self-service view of one entry.
type Status struct {
	Enabled        bool
	SinceTS        int64
	Message        string
	HasOverride    bool
	AutoClear      bool
	AutoAFKEnabled bool
	AutoAFKSeconds int64
}

// AutoAwayResult describes the auto-away timer after SetAutoAway.
type AutoAwayResult struct {
	Enabled bool
	Seconds int64
}

func requireAllowed(cfg *model.GuildConfig, userID string) error {
	if !cfg.IsAllowed(userID) {
		return ErrPermissionDenied
	}
	return nil
}

// ToggleAFK flips the away state of userID.
func (e *Engine) ToggleAFK(ctx context.Context, guildID, userID string) (ToggleResult, error) {
	var res ToggleResult
	cfg, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if err := requireAllowed(cfg, userID); err != nil {
			return false, err
		}
		entry := cfg.Entry(userID)
		if entry.Enabled {
			entry.Deactivate()
		} else {
			entry.Activate(e.now().Unix())
		}
		cfg.PutEntry(userID, entry)
		res = ToggleResult{
			Enabled: entry.Enabled,
			SinceTS: entry.SinceTS,
			Message: entry.Message(cfg.GuildDefaultMessage),
		}
		return true, nil
	})
	if err != nil {
		return ToggleResult{}, err
	}

	if res.Enabled {
		metrics.StateChanges.WithLabelValues("toggle_on").Inc()
		e.audit(ctx, cfg, AuditEntry{Action: "AFK ON", Description: "AFK enabled", TargetID: userID, Result: truncate(res.Message, 100)})
	} else {
		metrics.StateChanges.WithLabelValues("toggle_off").Inc()
		e.audit(ctx, cfg, AuditEntry{Action: "AFK OFF", Description: "AFK disabled", TargetID: userID})
	}
	return res, nil
}

// Status returns the entry of userID.
func (e *Engine) Status(ctx context.Context, guildID, userID string) (Status, error) {
	cfg, err := e.load(ctx, guildID)
	if err != nil {
		return Status{}, err
	}
	if err := requireAllowed(cfg, userID); err != nil {
		return Status{}, err
	}
	entry := cfg.Entry(userID)
	return Status{
		Enabled:        entry.Enabled,
		SinceTS:        entry.SinceTS,
		Message:        entry.Message(cfg.GuildDefaultMessage),
		HasOverride:    entry.MessageOverride != nil,
		AutoClear:      entry.AutoClearOnMessage,
		AutoAFKEnabled: entry.AutoAFKEnabled,
		AutoAFKSeconds: entry.AutoAFKSeconds,
	}, nil
}

// SetMessage stores a personal away message for userID.
func (e *Engine) SetMessage(ctx context.Context, guildID, userID, text string) (string, error) {
	var msg string
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if err := requireAllowed(cfg, userID); err != nil {
			return false, err
		}
		valid, err := ValidateMessage(text)
		if err != nil {
			return false, err
		}
		msg = valid
		entry := cfg.Entry(userID)
		entry.MessageOverride = &valid
		cfg.PutEntry(userID, entry)
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// ClearMessage removes the personal away message of userID.
func (e *Engine) ClearMessage(ctx context.Context, guildID, userID string) error {
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if err := requireAllowed(cfg, userID); err != nil {
			return false, err
		}
		entry := cfg.Entry(userID)
		entry.MessageOverride = nil
		cfg.PutEntry(userID, entry)
		return true, nil
	})
	return err
}

// SetAutoAway arms the idle timer with duration, or toggles it when duration
// is empty.
func (e *Engine) SetAutoAway(ctx context.Context, guildID, userID, duration string) (AutoAwayResult, error) {
	var res AutoAwayResult
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if err := requireAllowed(cfg, userID); err != nil {
			return false, err
		}
		entry := cfg.Entry(userID)
		if duration == "" {
			if entry.AutoAFKSeconds <= 0 {
				return false, ErrAutoAwayUnset
			}
			entry.AutoAFKEnabled = !entry.AutoAFKEnabled
			if entry.AutoAFKEnabled {
				entry.LastActivityTS = e.now().Unix()
			}
		} else {
			secs, err := ParseDuration(duration)
			if err != nil {
				return false, err
			}
			entry.AutoAFKSeconds = secs
			entry.AutoAFKEnabled = true
			entry.LastActivityTS = e.now().Unix()
		}
		cfg.PutEntry(userID, entry)
		res = AutoAwayResult{Enabled: entry.AutoAFKEnabled, Seconds: entry.AutoAFKSeconds}
		return true, nil
	})
	if err != nil {
		return AutoAwayResult{}, err
	}
	return res, nil
}

// SetAutoClear reports the auto-clear flag when mode is empty, otherwise sets
// it from an on/off token.
func (e *Engine) SetAutoClear(ctx context.Context, guildID, userID, mode string) (bool, error) {
	var value bool
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if err := requireAllowed(cfg, userID); err != nil {
			return false, err
		}
		entry := cfg.Entry(userID)
		if mode == "" {
			value = entry.AutoClearOnMessage
			return false, nil
		}
		on, err := ParseToggle(mode)
		if err != nil {
			return false, err
		}
		entry.AutoClearOnMessage = on
		cfg.PutEntry(userID, entry)
		value = on
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return value, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

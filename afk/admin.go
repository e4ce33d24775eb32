package afk

import (
	"afk-helper/model"
	"context"
)

// AddAllowed puts userID on the allow-list of guildID.
func (e *Engine) AddAllowed(ctx context.Context, guildID, userID string) error {
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if cfg.IsAllowed(userID) {
			return false, ErrAlreadyAllowed
		}
		if len(cfg.AllowedUserIDs) >= model.MaxAllowedUsers {
			return false, ErrAllowListFull
		}
		cfg.AllowedUserIDs = append(cfg.AllowedUserIDs, userID)
		return true, nil
	})
	return err
}

// RemoveAllowed takes userID off the allow-list. The stored entry is kept but
// becomes inert. wasDefault reports whether userID was the default user.
func (e *Engine) RemoveAllowed(ctx context.Context, guildID, userID string) (wasDefault bool, err error) {
	_, err = e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		idx := -1
		for i, id := range cfg.AllowedUserIDs {
			if id == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, ErrNotAllowed
		}
		cfg.AllowedUserIDs = append(cfg.AllowedUserIDs[:idx], cfg.AllowedUserIDs[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return userID == e.Defaults().AllowedUserID, nil
}

// ListAllowed returns the allow-list in insertion order.
func (e *Engine) ListAllowed(ctx context.Context, guildID string) ([]string, error) {
	cfg, err := e.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), cfg.AllowedUserIDs...), nil
}

// ResetAllowed restores the allow-list to the default user only.
func (e *Engine) ResetAllowed(ctx context.Context, guildID string) ([]string, error) {
	cfg, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		cfg.AllowedUserIDs = model.NewGuildConfig(guildID, e.Defaults()).AllowedUserIDs
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), cfg.AllowedUserIDs...), nil
}

func (e *Engine) toggle(ctx context.Context, guildID string, field func(cfg *model.GuildConfig) *bool) (bool, error) {
	var value bool
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		p := field(cfg)
		*p = !*p
		value = *p
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return value, nil
}

// ToggleDefaultEditable flips whether the guild default message may be edited.
func (e *Engine) ToggleDefaultEditable(ctx context.Context, guildID string) (bool, error) {
	return e.toggle(ctx, guildID, func(cfg *model.GuildConfig) *bool { return &cfg.EnableOwnerDefaultMessageEdit })
}

// ToggleIgnoreBots flips whether messages from bot accounts are ignored.
func (e *Engine) ToggleIgnoreBots(ctx context.Context, guildID string) (bool, error) {
	return e.toggle(ctx, guildID, func(cfg *model.GuildConfig) *bool { return &cfg.IgnoreBots })
}

// ToggleOffDuty flips off-duty auto-away.
func (e *Engine) ToggleOffDuty(ctx context.Context, guildID string) (bool, error) {
	return e.toggle(ctx, guildID, func(cfg *model.GuildConfig) *bool { return &cfg.EnableOffDutyAutoAFK })
}

// TogglePerChannelCooldown flips between per-channel and global cooldowns.
// Records written in the other shape read as "no record" afterwards.
func (e *Engine) TogglePerChannelCooldown(ctx context.Context, guildID string) (bool, error) {
	return e.toggle(ctx, guildID, func(cfg *model.GuildConfig) *bool { return &cfg.PerChannelCooldown })
}

// SetDefaultMessage replaces the guild default message. It is only permitted
// while default message editing is enabled.
func (e *Engine) SetDefaultMessage(ctx context.Context, guildID, text string) (string, error) {
	var msg string
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		if !cfg.EnableOwnerDefaultMessageEdit {
			return false, ErrDefaultEditLocked
		}
		valid, err := ValidateMessage(text)
		if err != nil {
			return false, err
		}
		cfg.GuildDefaultMessage = valid
		msg = valid
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// SetLogChannel enables audit logging into channelID, or disables it when
// channelID is empty.
func (e *Engine) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		cfg.LogChannelID = channelID
		cfg.LoggingEnabled = channelID != ""
		return true, nil
	})
	return err
}

// SetCooldown sets the minimum seconds between auto-replies for one user.
func (e *Engine) SetCooldown(ctx context.Context, guildID string, secs int64) error {
	if secs < 0 {
		return ErrNegativeCooldown
	}
	_, err := e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		cfg.CooldownSeconds = secs
		return true, nil
	})
	return err
}

// SetOffDutyTag sets the display-name substring that triggers off-duty AFK.
func (e *Engine) SetOffDutyTag(ctx context.Context, guildID, tag string) (string, error) {
	valid, err := ValidateOffDutyTag(tag)
	if err != nil {
		return "", err
	}
	_, err = e.update(ctx, guildID, func(cfg *model.GuildConfig) (bool, error) {
		cfg.OffDutyTag = valid
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return valid, nil
}

// Settings returns a copy of the guild record.
func (e *Engine) Settings(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := e.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

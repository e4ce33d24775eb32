package model

// GuildDefaults seeds the settings of a guild that has no stored record yet.
type GuildDefaults struct {
	AllowedUserID      string `mapstructure:"default_allowed_user_id"`
	Message            string `mapstructure:"default_message"`
	CooldownSeconds    int64  `mapstructure:"cooldown_seconds"`
	PerChannelCooldown bool   `mapstructure:"per_channel_cooldown"`
	IgnoreBots         bool   `mapstructure:"ignore_bots"`
	OffDutyTag         string `mapstructure:"offduty_tag"`
}

// GuildConfig is the whole per-guild AFK record. It is always loaded and
// saved as one unit.
type GuildConfig struct {
	GuildID                       string
	AllowedUserIDs                []string
	GuildDefaultMessage           string
	AFKState                      map[string]AFKEntry
	CooldownSeconds               int64
	PerChannelCooldown            bool
	LoggingEnabled                bool
	LogChannelID                  string
	EnableOwnerDefaultMessageEdit bool
	IgnoreBots                    bool
	EnableOffDutyAutoAFK          bool
	OffDutyTag                    string
}

// NewGuildConfig builds the default record for guildID.
func NewGuildConfig(guildID string, d GuildDefaults) *GuildConfig {
	allowed := []string{}
	if d.AllowedUserID != "" {
		allowed = append(allowed, d.AllowedUserID)
	}
	return &GuildConfig{
		GuildID:             guildID,
		AllowedUserIDs:      allowed,
		GuildDefaultMessage: d.Message,
		AFKState:            make(map[string]AFKEntry),
		CooldownSeconds:     d.CooldownSeconds,
		PerChannelCooldown:  d.PerChannelCooldown,
		IgnoreBots:          d.IgnoreBots,
		OffDutyTag:          d.OffDutyTag,
	}
}

// IsAllowed reports whether userID is on the allow-list.
func (g *GuildConfig) IsAllowed(userID string) bool {
	for _, id := range g.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Entry returns the stored entry for userID or a fresh default one. The
// default is not stored until PutEntry is called.
func (g *GuildConfig) Entry(userID string) AFKEntry {
	if e, ok := g.AFKState[userID]; ok {
		return e
	}
	return NewAFKEntry()
}

// PutEntry overwrites the entry for userID.
func (g *GuildConfig) PutEntry(userID string, e AFKEntry) {
	if g.AFKState == nil {
		g.AFKState = make(map[string]AFKEntry)
	}
	g.AFKState[userID] = e
}

// ActiveCount returns how many allow-listed users are currently away.
func (g *GuildConfig) ActiveCount() int {
	n := 0
	for id, e := range g.AFKState {
		if e.Enabled && g.IsAllowed(id) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (g *GuildConfig) Clone() *GuildConfig {
	out := *g
	out.AllowedUserIDs = append([]string(nil), g.AllowedUserIDs...)
	out.AFKState = make(map[string]AFKEntry, len(g.AFKState))
	for id, e := range g.AFKState {
		out.AFKState[id] = e.Clone()
	}
	return &out
}

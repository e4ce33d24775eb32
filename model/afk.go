package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MaxAllowedUsers caps the allow-list of a single guild.
const MaxAllowedUsers = 50

// LastReply records when an auto-reply last fired for an AFK user.
// It holds either a single global timestamp or one timestamp per channel;
// which shape is used depends on the guild's per-channel cooldown setting
// at write time.
type LastReply struct {
	perChannel bool
	global     int64
	channels   map[string]int64
}

// GlobalReply returns a global-shaped record.
func GlobalReply(ts int64) LastReply {
	return LastReply{global: ts}
}

// PerChannelReply returns a per-channel-shaped record. The map is copied.
func PerChannelReply(channels map[string]int64) LastReply {
	cp := make(map[string]int64, len(channels))
	for k, v := range channels {
		cp[k] = v
	}
	return LastReply{perChannel: true, channels: cp}
}

// IsPerChannel reports the stored shape.
func (l LastReply) IsPerChannel() bool {
	return l.perChannel
}

// IsZero reports whether no reply has been recorded in any shape.
func (l LastReply) IsZero() bool {
	if l.perChannel {
		for _, ts := range l.channels {
			if ts != 0 {
				return false
			}
		}
		return true
	}
	return l.global == 0
}

// Get returns the last reply time for channelID. A stored shape that does not
// match perChannel counts as no record.
func (l LastReply) Get(channelID string, perChannel bool) int64 {
	if perChannel != l.perChannel {
		return 0
	}
	if perChannel {
		return l.channels[channelID]
	}
	return l.global
}

// Set records ts for channelID, converting the record to the shape selected by
// perChannel. Entries of a stale shape are dropped.
func (l *LastReply) Set(channelID string, perChannel bool, ts int64) {
	if !perChannel {
		*l = LastReply{global: ts}
		return
	}
	if !l.perChannel || l.channels == nil {
		*l = LastReply{perChannel: true, channels: make(map[string]int64)}
	}
	l.channels[channelID] = ts
}

// Reset returns the record to its zero form.
func (l *LastReply) Reset() {
	*l = LastReply{}
}

func (l LastReply) clone() LastReply {
	if !l.perChannel {
		return l
	}
	return PerChannelReply(l.channels)
}

func (l LastReply) MarshalJSON() ([]byte, error) {
	if l.perChannel {
		if l.channels == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(l.channels)
	}
	return json.Marshal(l.global)
}

func (l *LastReply) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = LastReply{}
		return nil
	case data[0] == '{':
		channels := make(map[string]int64)
		if err := json.Unmarshal(data, &channels); err != nil {
			return fmt.Errorf("decode per-channel last reply: %w", err)
		}
		*l = LastReply{perChannel: true, channels: channels}
		return nil
	default:
		var ts float64
		if err := json.Unmarshal(data, &ts); err != nil {
			return fmt.Errorf("decode last reply: %w", err)
		}
		*l = LastReply{global: int64(ts)}
		return nil
	}
}

// AFKEntry is the AFK state of one allow-listed user in one guild.
type AFKEntry struct {
	Enabled            bool      `json:"enabled"`
	SinceTS            int64     `json:"since_ts"`
	MessageOverride    *string   `json:"message_override"`
	LastAutoReply      LastReply `json:"last_auto_reply_ts"`
	AutoClearOnMessage bool      `json:"auto_clear_on_message"`
	AutoAFKEnabled     bool      `json:"auto_afk_enabled"`
	AutoAFKSeconds     int64     `json:"auto_afk_seconds"`
	LastActivityTS     int64     `json:"last_activity_ts"`
}

// NewAFKEntry returns a disabled entry with every timestamp at zero.
func NewAFKEntry() AFKEntry {
	return AFKEntry{AutoClearOnMessage: true}
}

// UnmarshalJSON keeps AutoClearOnMessage true for records written before the
// field existed.
func (e *AFKEntry) UnmarshalJSON(data []byte) error {
	type plain AFKEntry
	tmp := plain(NewAFKEntry())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*e = AFKEntry(tmp)
	return nil
}

// Activate marks the entry away starting at now.
func (e *AFKEntry) Activate(now int64) {
	e.Enabled = true
	e.SinceTS = now
	e.LastAutoReply.Reset()
}

// Deactivate clears the away state.
func (e *AFKEntry) Deactivate() {
	e.Enabled = false
	e.SinceTS = 0
	e.LastAutoReply.Reset()
}

// Message returns the personal message or fallback when none is set.
func (e AFKEntry) Message(fallback string) string {
	if e.MessageOverride != nil && *e.MessageOverride != "" {
		return *e.MessageOverride
	}
	return fallback
}

// Clone returns a deep copy.
func (e AFKEntry) Clone() AFKEntry {
	out := e
	if e.MessageOverride != nil {
		msg := *e.MessageOverride
		out.MessageOverride = &msg
	}
	out.LastAutoReply = e.LastAutoReply.clone()
	return out
}

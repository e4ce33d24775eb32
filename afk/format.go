package afk

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// RelativeTimestamp renders ts as a Discord relative timestamp, or N/A.
func RelativeTimestamp(ts int64) string {
	if ts <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("<t:%d:R>", ts)
}

// FullTimestamp renders ts as "<t:ts:R> (<t:ts:f>)", or N/A.
func FullTimestamp(ts int64) string {
	if ts <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("<t:%d:R> (<t:%d:f>)", ts, ts)
}

// FormatDuration renders seconds using the largest unit that divides it
// exactly, so that ParseDuration(FormatDuration(n)) == n.
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}
	for _, u := range []struct {
		suffix string
		size   int64
	}{{"d", 86400}, {"h", 3600}, {"m", 60}} {
		if secs%u.size == 0 {
			return fmt.Sprintf("%d%s", secs/u.size, u.suffix)
		}
	}
	return fmt.Sprintf("%ds", secs)
}

// AutoReplyText is posted when someone mentions an AFK user.
func AutoReplyText(name, message string, sinceTS int64) string {
	return fmt.Sprintf("%s is currently AFK.\nMessage: %s\nAFK since: %s", name, message, RelativeTimestamp(sinceTS))
}

// WelcomeBackText greets a user whose AFK was cleared by their own message.
func WelcomeBackText(userID string, sinceTS, now int64) string {
	if sinceTS <= 0 || now < sinceTS {
		return fmt.Sprintf("Welcome back, <@%s>! Your AFK status has been cleared.", userID)
	}
	away := strings.TrimSpace(humanize.RelTime(time.Unix(sinceTS, 0), time.Unix(now, 0), "", ""))
	if away == "now" {
		away = "a moment"
	}
	return fmt.Sprintf("Welcome back, <@%s>! You were AFK for %s.", userID, away)
}

// AutoAwayNotice is sent by DM when the sweep marks a user AFK.
func AutoAwayNotice(guildID string, idleSecs int64) string {
	return fmt.Sprintf("You were marked AFK automatically after %s of inactivity (server %s). Use `/afk toggle` to turn it off.", FormatDuration(idleSecs), guildID)
}

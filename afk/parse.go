package afk

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxMessageRunes = 200
	maxMessageLines = 3
	maxOffDutyTag   = 32
)

var (
	durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)
	userRefPattern  = regexp.MustCompile(`^(?:<@!?(\d{15,21})>|(\d{15,21}))$`)
)

var durationUnits = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseDuration converts strings like "10m", "1h" or "2d" into seconds.
func ParseDuration(s string) (int64, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, ErrInvalidDuration
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidDuration
	}
	mult := durationUnits[m[2]]
	if n > (1<<62)/mult {
		return 0, ErrInvalidDuration
	}
	secs := n * mult
	if secs <= 0 {
		return 0, ErrNonPositive
	}
	return secs, nil
}

// ValidateMessage checks msg is 1-200 characters over at most three lines
// and returns the form that gets stored: surrounding whitespace trimmed and
// CRLF or lone CR line breaks rewritten to LF, so " hi " is stored as "hi".
func ValidateMessage(msg string) (string, error) {
	msg = strings.TrimSpace(lineBreaks.Replace(msg))
	n := utf8.RuneCountInString(msg)
	if n < 1 || n > maxMessageRunes {
		return "", ErrMessageLength
	}
	if lineCount(msg) > maxMessageLines {
		return "", ErrMessageLines
	}
	return msg, nil
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// lineCount counts lines the way Unicode line boundaries split them.
func lineCount(s string) int {
	n := 1
	for _, r := range s {
		switch r {
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			n++
		}
	}
	return n
}

var (
	onTokens  = map[string]bool{"on": true, "true": true, "enable": true, "enabled": true, "1": true}
	offTokens = map[string]bool{"off": true, "false": true, "disable": true, "disabled": true, "0": true}
)

// ParseToggle maps an on/off token to a bool.
func ParseToggle(mode string) (bool, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch {
	case onTokens[mode]:
		return true, nil
	case offTokens[mode]:
		return false, nil
	default:
		return false, ErrInvalidToggle
	}
}

// ParseUserRef accepts a user mention (<@id> or <@!id>) or a bare snowflake.
func ParseUserRef(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	m := userRefPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", ParseError(raw)
	}
	if m[1] != "" {
		return m[1], nil
	}
	return m[2], nil
}

// ValidateOffDutyTag trims tag and checks its length.
func ValidateOffDutyTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	n := utf8.RuneCountInString(tag)
	if n < 1 || n > maxOffDutyTag {
		return "", ErrInvalidOffDutyTag
	}
	return tag, nil
}

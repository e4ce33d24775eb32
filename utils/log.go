package utils

import (
	"afk-helper/afk"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

func sendLog(s *discordgo.Session, channelID string, level LogLevel, module, operation, extraInfo string) error {
	if channelID == "" {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: nonEmpty(extraInfo)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	_, err := s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// LogInfo posts an info embed to the system log channel.
func LogInfo(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Info, module, operation, extraInfo)
}

// LogWarn posts a warning embed to the system log channel.
func LogWarn(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Warn, module, operation, extraInfo)
}

// LogError posts an error embed to the system log channel.
func LogError(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Error, module, operation, extraInfo)
}

// BuildAuditEmbed renders one audit log entry. Each entry gets a fresh event
// id in the footer so it can be referenced from the process logs.
func BuildAuditEmbed(entry afk.AuditEntry) *discordgo.MessageEmbed {
	level := Info
	if entry.Action == "ERROR" {
		level = Error
	}
	embed := &discordgo.MessageEmbed{
		Title:       "AFK",
		Description: entry.Description,
		Color:       getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: entry.Action, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "event " + uuid.NewString()},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if entry.ChannelID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Channel", Value: fmt.Sprintf("<#%s>", entry.ChannelID), Inline: true})
	}
	if entry.TargetID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Target", Value: fmt.Sprintf("<@%s> (%s)", entry.TargetID, entry.TargetID)})
	}
	if entry.MentionerID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Mentioner", Value: fmt.Sprintf("<@%s> (%s)", entry.MentionerID, entry.MentionerID)})
	}
	if entry.Result != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Result", Value: entry.Result})
	}
	return embed
}

func nonEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

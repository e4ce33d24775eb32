package handlers

import (
	"afk-helper/bot"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuUsage := "N/A"
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}

	memory := "N/A"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%.1f%% (%s / %s)", vm.UsedPercent, humanize.IBytes(vm.Used), humanize.IBytes(vm.Total))
	}

	osVersion, kernel := "N/A", "N/A"
	if hostInfo, err := host.Info(); err == nil {
		osVersion = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	dbSize := "N/A"
	if fi, err := os.Stat(b.GetConfig().DatabasePath); err == nil {
		dbSize = humanize.IBytes(uint64(fi.Size()))
	}

	ctx, cancel := handlerContext()
	defer cancel()
	guilds, active, err := b.Engine.Stats(ctx)
	afkStats := fmt.Sprintf("%d guild(s), %d AFK", guilds, active)
	if err != nil {
		log.Error().Err(err).Msg("system-info: afk stats")
		afkStats = "N/A"
	}

	embed := &discordgo.MessageEmbed{
		Title: "System info",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: osVersion, Inline: true},
			{Name: "🔧 Kernel", Value: kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: cpuUsage, Inline: true},
			{Name: "🧠 Memory", Value: memory, Inline: true},
			{Name: "🗃️ Database", Value: dbSize, Inline: true},
			{Name: "⏱️ Gateway latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "💤 AFK", Value: afkStats, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "System monitor・" + time.Now().Format("15:04"),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("system-info response")
	}
}

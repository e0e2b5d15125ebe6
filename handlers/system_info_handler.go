package handlers

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"roster-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// Get CPU info
	cpuCount, _ := cpu.CountsWithContext(ctx, true)
	cpuUsage := "N/A"
	if percent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", percent[0])
	}

	// Get memory info
	memory := "N/A"
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	// Get host info
	platform, kernel := "N/A", "N/A"
	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	// Get database size
	dbSize := "N/A"
	if st, err := os.Stat(b.GetConfig().DBPath); err == nil {
		dbSize = fmt.Sprintf("%.2f MB", float64(st.Size())/1024/1024)
	}

	agents, onDuty := "N/A", "N/A"
	if list, err := b.Repo.ListAgents(ctx); err == nil {
		agents = fmt.Sprintf("%d", len(list))
	}
	if open, err := b.Repo.ListOpenShifts(ctx); err == nil {
		onDuty = fmt.Sprintf("%d", len(open))
	}

	embed := &discordgo.MessageEmbed{
		Title: "Informations système",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: platform, Inline: true},
			{Name: "🔧 Noyau", Value: kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPU", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 Utilisation CPU", Value: cpuUsage, Inline: true},
			{Name: "🧠 Mémoire", Value: memory, Inline: true},
			{Name: "🗃️ Base de données", Value: dbSize, Inline: true},
			{Name: "⏱️ Latence WebSocket", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "👮 Agents", Value: agents, Inline: true},
			{Name: "🎧 En service", Value: onDuty, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Surveillance système・%s", time.Now().Format("15:04")),
		},
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"roster-bot/model"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

type OpenShiftLister interface {
	ListOpenShifts(ctx context.Context) ([]model.ShiftRecord, error)
}

// GenerateOpenShiftEmbed lists the agents currently on duty, longest first.
func GenerateOpenShiftEmbed(ctx context.Context, store OpenShiftLister, now time.Time) (*discordgo.MessageEmbed, error) {
	open, err := store.ListOpenShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shifts: %w", err)
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].StartedAt.Before(open[j].StartedAt)
	})

	var builder strings.Builder
	if len(open) == 0 {
		builder.WriteString("Aucun agent en service.")
	}
	for i, rec := range open {
		builder.WriteString(fmt.Sprintf("%d. <@%s> depuis <t:%d:R> (%s)\n",
			i+1, rec.UserID, rec.StartedAt.Unix(), utils.FormatHoursMinutes(now.Sub(rec.StartedAt))))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Agents en service : %d", len(open)),
		Description: builder.String(),
		Timestamp:   now.Format(time.RFC3339),
		Color:       0x3498db,
	}, nil
}

// PostOpenShiftReport sends the open-shift report to channelID.
func PostOpenShiftReport(ctx context.Context, store OpenShiftLister, sender utils.EmbedSender, channelID string, now time.Time) error {
	if channelID == "" {
		return nil
	}
	embed, err := GenerateOpenShiftEmbed(ctx, store, now)
	if err != nil {
		return err
	}
	if _, err := sender.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send open shift report to channel %s: %w", channelID, err)
	}
	return nil
}

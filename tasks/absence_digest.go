package tasks

import (
	"context"
	"fmt"
	"time"

	"roster-bot/model"
	"roster-bot/roster"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

type AbsenceLister interface {
	ListAbsences(ctx context.Context, status model.AbsenceStatus) ([]model.AbsenceRequest, error)
}

// PostPendingAbsenceDigest reminds approvers of undecided absence requests.
// Nothing is sent when there are none.
func PostPendingAbsenceDigest(ctx context.Context, store AbsenceLister, sender utils.EmbedSender, channelID string, now time.Time) (int, error) {
	if channelID == "" {
		return 0, nil
	}
	pending, err := store.ListAbsences(ctx, model.AbsencePending)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending absences: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Demandes d'absence en attente : %d", len(pending)),
		Description: roster.FormatAbsences(pending),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Utilisez /absence decider pour les traiter"},
		Timestamp:   now.Format(time.RFC3339),
		Color:       15105570,
	}
	if _, err := sender.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return 0, fmt.Errorf("failed to send absence digest to channel %s: %w", channelID, err)
	}
	return len(pending), nil
}

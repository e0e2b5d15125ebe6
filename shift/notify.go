package shift

import (
	"context"
	"fmt"

	"roster-bot/model"
	"roster-bot/utils"
)

// Notifier announces shift changes. Errors are logged by the tracker and
// never undo the stored change.
type Notifier interface {
	ShiftOpened(ctx context.Context, rec model.ShiftRecord) error
	ShiftClosed(ctx context.Context, rec model.ShiftRecord, forced bool) error
}

// LogNotifier posts shift changes to the log channel.
type LogNotifier struct {
	sender    utils.EmbedSender
	channelID string
}

func NewLogNotifier(sender utils.EmbedSender, channelID string) *LogNotifier {
	return &LogNotifier{sender: sender, channelID: channelID}
}

func (n *LogNotifier) ShiftOpened(_ context.Context, rec model.ShiftRecord) error {
	return utils.LogInfo(n.sender, n.channelID, "Service", "Prise de service",
		fmt.Sprintf("<@%s> a pris son service à <t:%d:t>", rec.UserID, rec.StartedAt.Unix()))
}

func (n *LogNotifier) ShiftClosed(_ context.Context, rec model.ShiftRecord, forced bool) error {
	operation := "Fin de service"
	if forced {
		operation = "Fin de service forcée"
	}
	return utils.LogInfo(n.sender, n.channelID, "Service", operation,
		fmt.Sprintf("<@%s> a terminé son service (durée : %s)", rec.UserID, utils.FormatHoursMinutes(rec.Duration())))
}

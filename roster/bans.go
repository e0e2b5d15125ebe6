package roster

import (
	"context"
	"fmt"
	"strings"

	"roster-bot/model"
)

const maxBanListing = 25

// RecentBans lists the latest automatic bans of the guild, newest first.
func (s *Service) RecentBans(ctx context.Context, limit int) (string, error) {
	if limit <= 0 || limit > maxBanListing {
		limit = 10
	}
	bans, err := s.repo.ListBans(ctx, s.guildID, limit)
	if err != nil {
		return "", err
	}
	if len(bans) == 0 {
		return "Aucun bannissement automatique enregistré.", nil
	}
	var b strings.Builder
	for i, ban := range bans {
		if i > 0 {
			b.WriteByte('\n')
		}
		status := "✅"
		if ban.Status == model.BanFailed {
			status = "⚠️ échec"
		}
		fmt.Fprintf(&b, "%s <@%s> <t:%d:f> : %d infractions", status, ban.UserID, ban.At.Unix(), ban.Violations)
		if ban.Error != "" {
			fmt.Fprintf(&b, " (`%s`)", ban.Error)
		}
	}
	return b.String(), nil
}

package roster

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roster-bot/shift"
	"roster-bot/utils"
)

func (s *Service) Salary(ctx context.Context, userID string) (string, error) {
	agent, err := s.repo.GetAgent(ctx, userID)
	if err != nil {
		return "", err
	}
	roles, err := s.platform.MemberRoles(ctx, s.guildID, userID)
	if err != nil {
		log.Printf("Failed to fetch roles of %s, using stored salary: %v", userID, err)
	}
	history, err := s.shifts.History(ctx, userID)
	if err != nil {
		return "", err
	}

	pay := shift.ComputeSalary(*agent, roles, history, s.settings.Settings().Salary)
	rank := pay.Rank
	if rank == "" {
		rank = "salaire fixe"
	}
	return fmt.Sprintf("💰 **Salaire de <@%s>**\nTemps de service : %s\nBase (%s) : %d $\nPrime : %d $\n**Total : %d $**",
		userID, utils.FormatHoursMinutes(pay.Worked), rank, pay.Base, pay.Bonus, pay.Total), nil
}

func (s *Service) PurgeShifts(ctx context.Context) (string, error) {
	voice, err := s.platform.VoiceChannels(ctx, s.guildID)
	if err != nil {
		return "", fmt.Errorf("reading voice states: %w", err)
	}
	closed, err := s.shifts.Purge(ctx, voice)
	if err != nil {
		return "", err
	}
	if len(closed) == 0 {
		return "✅ Aucun service orphelin.", nil
	}
	lines := make([]string, 0, len(closed))
	for _, rec := range closed {
		lines = append(lines, fmt.Sprintf("• <@%s> (%s)", rec.UserID, utils.FormatHoursMinutes(rec.Duration())))
	}
	return fmt.Sprintf("🧹 %d service(s) fermé(s) :\n%s", len(closed), strings.Join(lines, "\n")), nil
}

// ResetShifts wipes the shift history of one agent, or of all agents when userID is empty.
func (s *Service) ResetShifts(ctx context.Context, userID string) (string, error) {
	if userID != "" {
		if _, err := s.repo.GetAgent(ctx, userID); err != nil {
			return "", err
		}
	}
	n, err := s.shifts.Reset(ctx, userID)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return fmt.Sprintf("♻️ Historique de service réinitialisé (%d entrées).", n), nil
	}
	return fmt.Sprintf("♻️ Historique de service de <@%s> réinitialisé (%d entrées).", userID, n), nil
}

func (s *Service) ShiftStatus(ctx context.Context, userID string) (string, error) {
	if _, err := s.repo.GetAgent(ctx, userID); err != nil {
		return "", err
	}
	st, err := s.shifts.Status(ctx, userID)
	if err != nil {
		return "", err
	}
	return formatStatus(userID, st), nil
}

func formatStatus(userID string, st shift.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏱️ **Service de <@%s>**\n", userID)
	if st.Open != nil {
		fmt.Fprintf(&b, "En service depuis <t:%d:R> (%s)\n", st.Open.StartedAt.Unix(), utils.FormatHoursMinutes(st.Elapsed))
	} else {
		b.WriteString("Hors service\n")
	}
	fmt.Fprintf(&b, "Services terminés : %d · Total : %s", st.Closed, utils.FormatHoursMinutes(st.Worked))
	return b.String()
}

package roster

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roster-bot/model"
	"roster-bot/utils"
)

func (s *Service) SubmitAbsence(ctx context.Context, requesterID, start, end, reason string) (string, error) {
	startDate, err := utils.ParseDate(start)
	if err != nil {
		return "", model.Invalid("start", "date de début invalide, format attendu AAAA-MM-JJ")
	}
	endDate, err := utils.ParseDate(end)
	if err != nil {
		return "", model.Invalid("end", "date de fin invalide, format attendu AAAA-MM-JJ")
	}
	if endDate.Before(startDate) {
		return "", model.Invalid("end", "la date de fin précède la date de début")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", model.Invalid("reason", "la raison est obligatoire")
	}

	req := model.AbsenceRequest{
		ID:          s.newID(),
		RequesterID: requesterID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      reason,
		Status:      model.AbsencePending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateAbsence(ctx, req); err != nil {
		return "", err
	}

	s.notify(ctx, s.settings.Settings().AbsenceChannelID, fmt.Sprintf(
		"📅 Nouvelle demande d'absence `%s` de <@%s> du %s au %s : %s",
		req.ID, requesterID, start, end, reason))
	return fmt.Sprintf("✅ Demande d'absence envoyée (`%s`).", req.ID), nil
}

// DecideAbsence approves or rejects a pending request and tells the requester.
func (s *Service) DecideAbsence(ctx context.Context, id string, approve bool, approverID string) (string, error) {
	status := model.AbsenceRejected
	verb := "refusée"
	if approve {
		status = model.AbsenceApproved
		verb = "acceptée"
	}

	req, err := s.repo.DecideAbsence(ctx, strings.TrimSpace(id), status, approverID, s.now())
	if err != nil {
		return "", err
	}

	dm := fmt.Sprintf("Ta demande d'absence du %s au %s a été %s par <@%s>.",
		req.StartDate.Format(utils.DateLayout), req.EndDate.Format(utils.DateLayout), verb, approverID)
	if err := s.platform.SendDirectMessage(ctx, req.RequesterID, dm); err != nil {
		log.Printf("Failed to notify %s about absence %s: %v", req.RequesterID, req.ID, err)
	}
	return fmt.Sprintf("✅ Demande `%s` de <@%s> %s.", req.ID, req.RequesterID, verb), nil
}

func (s *Service) ListAbsences(ctx context.Context, status string) (string, error) {
	filter := model.AbsenceStatus(status)
	switch filter {
	case "", model.AbsencePending, model.AbsenceApproved, model.AbsenceRejected:
	default:
		return "", model.Invalid("status", "statut inconnu : %s", status)
	}

	absences, err := s.repo.ListAbsences(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(absences) == 0 {
		return "Aucune demande d'absence.", nil
	}
	return FormatAbsences(absences), nil
}

// FormatAbsences renders one line per request.
func FormatAbsences(absences []model.AbsenceRequest) string {
	var b strings.Builder
	for i, a := range absences {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "`%s` <@%s> %s → %s [%s] %s",
			a.ID, a.RequesterID, a.StartDate.Format(utils.DateLayout), a.EndDate.Format(utils.DateLayout), statusLabel(a.Status), a.Reason)
	}
	return b.String()
}

func statusLabel(status model.AbsenceStatus) string {
	switch status {
	case model.AbsenceApproved:
		return "acceptée"
	case model.AbsenceRejected:
		return "refusée"
	default:
		return "en attente"
	}
}

package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"roster-bot/model"

	"github.com/samber/lo"
)

type RegisterInput struct {
	UserID            string
	Matricule         int
	GameID            string
	CaseFileChannelID string
	Salary            int64
}

func (s *Service) RegisterAgent(ctx context.Context, in RegisterInput) (string, error) {
	if in.UserID == "" {
		return "", model.Invalid("user", "utilisateur manquant")
	}
	if in.Matricule < model.MinMatricule || in.Matricule > model.MaxMatricule {
		return "", model.Invalid("matricule", "le matricule doit être compris entre %d et %d", model.MinMatricule, model.MaxMatricule)
	}
	in.GameID = strings.TrimSpace(in.GameID)
	if in.GameID == "" {
		return "", model.Invalid("game_id", "l'ID en jeu est obligatoire")
	}
	if in.Salary < 0 {
		return "", model.Invalid("salary", "le salaire ne peut pas être négatif")
	}

	caseFile := in.CaseFileChannelID
	if category := s.settings.Settings().CaseFileCategoryID; caseFile == "" && category != "" {
		id, err := s.platform.CreateTextChannel(ctx, s.guildID, category, fmt.Sprintf("dossier-%02d", in.Matricule))
		if err != nil {
			log.Printf("Failed to create case file channel for %s: %v", in.UserID, err)
		} else {
			caseFile = id
		}
	}

	err := s.repo.CreateAgent(ctx, model.Agent{
		UserID:            in.UserID,
		Matricule:         in.Matricule,
		GameID:            in.GameID,
		CaseFileChannelID: caseFile,
		Salary:            in.Salary,
		RegisteredAt:      s.now(),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ <@%s> enregistré comme agent (matricule %02d).", in.UserID, in.Matricule), nil
}

func (s *Service) DeleteAgent(ctx context.Context, userID string) (string, error) {
	shifts, err := s.repo.DeleteAgent(ctx, userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑️ Agent <@%s> supprimé (%d services effacés).", userID, shifts), nil
}

// MemberDeparted removes an agent who left the guild. Non-agents are ignored.
func (s *Service) MemberDeparted(ctx context.Context, ev model.MemberDeparted) error {
	shifts, err := s.repo.DeleteAgent(ctx, ev.UserID)
	if errors.Is(err, model.ErrAgentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("Agent %s left guild %s, removed with %d shifts", ev.UserID, ev.GuildID, shifts)
	return nil
}

func (s *Service) AgentInfo(ctx context.Context, userID string) (string, error) {
	agent, err := s.repo.GetAgent(ctx, userID)
	if err != nil {
		return "", err
	}
	rewards := lo.CountBy(agent.Entries, func(e model.AgentEntry) bool { return e.Kind == model.EntryReward })

	var b strings.Builder
	fmt.Fprintf(&b, "**Agent %02d** <@%s>\n", agent.Matricule, agent.UserID)
	fmt.Fprintf(&b, "ID en jeu : `%s`\n", agent.GameID)
	if agent.CaseFileChannelID != "" {
		fmt.Fprintf(&b, "Dossier : <#%s>\n", agent.CaseFileChannelID)
	}
	fmt.Fprintf(&b, "Salaire fixe : %d $\n", agent.Salary)
	fmt.Fprintf(&b, "Enregistré le <t:%d:D>\n", agent.RegisteredAt.Unix())
	fmt.Fprintf(&b, "Récompenses : %d · Sanctions : %d", rewards, len(agent.Entries)-rewards)

	recent := agent.Entries[max(len(agent.Entries)-5, 0):]
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		fmt.Fprintf(&b, "\n%s <t:%d:d> %s (par <@%s>)", entryIcon(e.Kind), e.CreatedAt.Unix(), e.Reason, e.IssuedBy)
	}
	return b.String(), nil
}

func (s *Service) ListAgents(ctx context.Context) (string, error) {
	agents, err := s.repo.ListAgents(ctx)
	if err != nil {
		return "", err
	}
	if len(agents) == 0 {
		return "Aucun agent enregistré.", nil
	}
	lines := lo.Map(agents, func(a model.Agent, _ int) string {
		return fmt.Sprintf("`%02d` <@%s> · `%s`", a.Matricule, a.UserID, a.GameID)
	})
	return fmt.Sprintf("**Effectif (%d)**\n%s", len(agents), strings.Join(lines, "\n")), nil
}

func entryIcon(kind model.EntryKind) string {
	if kind == model.EntryReward {
		return "🏅"
	}
	return "⚠️"
}

// AddEntry logs a reward or sanction and posts it to the agent's case file.
func (s *Service) AddEntry(ctx context.Context, userID string, kind model.EntryKind, reason, issuedBy string) (string, error) {
	if !kind.Valid() {
		return "", model.Invalid("kind", "type d'entrée inconnu : %s", kind)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", model.Invalid("reason", "la raison est obligatoire")
	}
	agent, err := s.repo.GetAgent(ctx, userID)
	if err != nil {
		return "", err
	}

	entry := model.AgentEntry{
		ID:        s.newID(),
		UserID:    userID,
		Kind:      kind,
		Reason:    reason,
		IssuedBy:  issuedBy,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddEntry(ctx, entry); err != nil {
		return "", err
	}

	label := "Récompense"
	if kind == model.EntrySanction {
		label = "Sanction"
	}
	s.notify(ctx, agent.CaseFileChannelID, fmt.Sprintf("%s **%s** pour <@%s> : %s (par <@%s>)", entryIcon(kind), label, userID, reason, issuedBy))
	return fmt.Sprintf("✅ %s ajoutée au dossier de <@%s>.", label, userID), nil
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"roster-bot/model"
	"roster-bot/roster"
	"roster-bot/utils"

	"github.com/samber/lo"
)

// RosterActions is the command surface of roster.Service.
type RosterActions interface {
	RegisterAgent(ctx context.Context, in roster.RegisterInput) (string, error)
	DeleteAgent(ctx context.Context, userID string) (string, error)
	AgentInfo(ctx context.Context, userID string) (string, error)
	ListAgents(ctx context.Context) (string, error)
	AddEntry(ctx context.Context, userID string, kind model.EntryKind, reason, issuedBy string) (string, error)

	SubmitAbsence(ctx context.Context, requesterID, start, end, reason string) (string, error)
	DecideAbsence(ctx context.Context, id string, approve bool, approverID string) (string, error)
	ListAbsences(ctx context.Context, status string) (string, error)

	AddWhitelistDomain(ctx context.Context, raw string) (string, error)
	RemoveWhitelistDomain(ctx context.Context, raw string) (string, error)
	AddWhitelistChannel(ctx context.Context, channelID string) (string, error)
	RemoveWhitelistChannel(ctx context.Context, channelID string) (string, error)
	ListWhitelist(ctx context.Context) (string, error)
	RecentBans(ctx context.Context, limit int) (string, error)

	SetAntiSpam(ctx context.Context, window string, threshold int) (string, error)
	SetServiceChannels(ctx context.Context, channelIDs []string) (string, error)
	SetSalaryRank(ctx context.Context, roleID, name string, base int64) (string, error)
	RemoveSalaryRank(ctx context.Context, roleID string) (string, error)
	SetHourlyRate(ctx context.Context, rate float64) (string, error)

	Salary(ctx context.Context, userID string) (string, error)
	PurgeShifts(ctx context.Context) (string, error)
	ResetShifts(ctx context.Context, userID string) (string, error)
	ShiftStatus(ctx context.Context, userID string) (string, error)
}

// actor is the member who ran a command.
type actor struct {
	UserID string
	Level  string
}

// requiredLevel returns the permission a command needs. Anything not listed
// is open to every member.
func requiredLevel(command, sub string, opts options, self string) string {
	switch command + "/" + sub {
	case "agent/enregistrer", "agent/supprimer", "agent/recompense", "agent/sanction",
		"service/purge", "service/reset":
		return utils.AdminPermission
	case "whitelist/liste":
		return utils.GuestPermission
	case "absence/decider":
		return utils.ApproverPermission
	case "service/statut", "service/salaire":
		if target := opts.ID("agent"); target != "" && target != self {
			return utils.AdminPermission
		}
		return utils.GuestPermission
	}
	switch command {
	case "whitelist", "config":
		return utils.AdminPermission
	}
	return utils.GuestPermission
}

func allowed(level, required string) bool {
	switch required {
	case utils.AdminPermission:
		return level == utils.AdminPermission
	case utils.ApproverPermission:
		return utils.CanApprove(level)
	default:
		return true
	}
}

var expectedErrors = []error{
	errForbidden,
	model.ErrAgentExists,
	model.ErrDuplicateMatricule,
	model.ErrDuplicateGameID,
	model.ErrAbsenceDecided,
	model.ErrShiftAlreadyOpen,
	model.ErrNoOpenShift,
}

// isExpected reports whether err is a user mistake rather than a failure.
func isExpected(err error) bool {
	var verr *model.ValidationError
	if errors.As(err, &verr) || model.IsNotFound(err) {
		return true
	}
	return lo.SomeBy(expectedErrors, func(target error) bool { return errors.Is(err, target) })
}

var snowflakePattern = regexp.MustCompile(`\d{15,21}`)

// parseChannelIDs accepts channel mentions or raw ids separated by spaces or commas.
func parseChannelIDs(raw string) []string {
	return snowflakePattern.FindAllString(raw, -1)
}

// runRosterCommand executes one roster slash command and returns the reply.
// Errors are rendered with roster.UserMessage by the caller.
func runRosterCommand(ctx context.Context, svc RosterActions, who actor, command, sub string, opts options) (string, error) {
	if !allowed(who.Level, requiredLevel(command, sub, opts, who.UserID)) {
		return "", errForbidden
	}

	target := opts.ID("agent")
	if target == "" {
		target = who.UserID
	}

	switch command + "/" + sub {
	case "agent/enregistrer":
		return svc.RegisterAgent(ctx, roster.RegisterInput{
			UserID:            opts.ID("agent"),
			Matricule:         int(opts.Int("matricule", 0)),
			GameID:            opts.String("id-jeu"),
			CaseFileChannelID: opts.ID("dossier"),
			Salary:            opts.Int("salaire", 0),
		})
	case "agent/supprimer":
		return svc.DeleteAgent(ctx, opts.ID("agent"))
	case "agent/info":
		return svc.AgentInfo(ctx, opts.ID("agent"))
	case "agent/liste":
		return svc.ListAgents(ctx)
	case "agent/recompense":
		return svc.AddEntry(ctx, opts.ID("agent"), model.EntryReward, opts.String("raison"), who.UserID)
	case "agent/sanction":
		return svc.AddEntry(ctx, opts.ID("agent"), model.EntrySanction, opts.String("raison"), who.UserID)

	case "absence/demander":
		return svc.SubmitAbsence(ctx, who.UserID, opts.String("debut"), opts.String("fin"), opts.String("raison"))
	case "absence/decider":
		return svc.DecideAbsence(ctx, opts.String("id"), opts.String("decision") == "approve", who.UserID)
	case "absence/liste":
		return svc.ListAbsences(ctx, opts.String("statut"))

	case "whitelist/ajouter-domaine":
		return svc.AddWhitelistDomain(ctx, opts.String("domaine"))
	case "whitelist/retirer-domaine":
		return svc.RemoveWhitelistDomain(ctx, opts.String("domaine"))
	case "whitelist/ajouter-salon":
		return svc.AddWhitelistChannel(ctx, opts.ID("salon"))
	case "whitelist/retirer-salon":
		return svc.RemoveWhitelistChannel(ctx, opts.ID("salon"))
	case "whitelist/liste":
		return svc.ListWhitelist(ctx)
	case "whitelist/bans":
		return svc.RecentBans(ctx, int(opts.Int("limite", 10)))

	case "config/antispam":
		return svc.SetAntiSpam(ctx, opts.String("fenetre"), int(opts.Int("seuil", 0)))
	case "config/salons-service":
		return svc.SetServiceChannels(ctx, parseChannelIDs(opts.String("salons")))
	case "config/grade":
		return svc.SetSalaryRank(ctx, opts.ID("role"), opts.String("nom"), opts.Int("base", 0))
	case "config/retirer-grade":
		return svc.RemoveSalaryRank(ctx, opts.ID("role"))
	case "config/taux":
		return svc.SetHourlyRate(ctx, opts.Float("taux", 0))

	case "service/statut":
		return svc.ShiftStatus(ctx, target)
	case "service/salaire":
		return svc.Salary(ctx, target)
	case "service/purge":
		return svc.PurgeShifts(ctx)
	case "service/reset":
		return svc.ResetShifts(ctx, opts.ID("agent"))
	}
	return "", fmt.Errorf("unknown command %s %s", command, strings.TrimSpace(sub))
}

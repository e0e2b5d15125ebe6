package roster

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"roster-bot/model"
	"roster-bot/shift"

	"github.com/google/uuid"
)

// Repository is the storage the roster actions need.
type Repository interface {
	CreateAgent(ctx context.Context, a model.Agent) error
	GetAgent(ctx context.Context, userID string) (*model.Agent, error)
	ListAgents(ctx context.Context) ([]model.Agent, error)
	DeleteAgent(ctx context.Context, userID string) (int64, error)
	AddEntry(ctx context.Context, e model.AgentEntry) error

	CreateAbsence(ctx context.Context, a model.AbsenceRequest) error
	DecideAbsence(ctx context.Context, id string, status model.AbsenceStatus, decidedBy string, at time.Time) (model.AbsenceRequest, error)
	ListAbsences(ctx context.Context, status model.AbsenceStatus) ([]model.AbsenceRequest, error)

	Whitelist(ctx context.Context) (model.WhitelistConfig, error)
	AddDomain(ctx context.Context, domain string) (bool, error)
	RemoveDomain(ctx context.Context, domain string) (bool, error)
	AddChannel(ctx context.Context, channelID string) (bool, error)
	RemoveChannel(ctx context.Context, channelID string) (bool, error)

	ListBans(ctx context.Context, guildID string, limit int) ([]model.BanRecord, error)

	GetSetting(ctx context.Context, key string, v any) (bool, error)
	PutSetting(ctx context.Context, key string, v any) error
}

// Platform is what the actions need from the chat platform. Every call is
// best effort from the roster's point of view.
type Platform interface {
	SendToChannel(ctx context.Context, channelID, content string) error
	SendDirectMessage(ctx context.Context, userID, text string) error
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)
	VoiceChannels(ctx context.Context, guildID string) (map[string]string, error)
	CreateTextChannel(ctx context.Context, guildID, parentID, name string) (string, error)
}

// Shifts is the part of the shift tracker used by admin actions.
type Shifts interface {
	Purge(ctx context.Context, voiceChannels map[string]string) ([]model.ShiftRecord, error)
	Reset(ctx context.Context, userID string) (int64, error)
	Status(ctx context.Context, userID string) (shift.Status, error)
	History(ctx context.Context, userID string) ([]model.ShiftRecord, error)
}

// SettingsHolder exposes the settings in effect and lets admin actions replace them.
type SettingsHolder interface {
	model.SettingsProvider
	SetSettings(model.Settings)
}

// Service implements the roster actions. Each action returns the text shown
// to the user who triggered it, or an error for UserMessage.
type Service struct {
	repo     Repository
	shifts   Shifts
	platform Platform
	settings SettingsHolder
	guildID  string

	// serializes read-modify-write of settings
	settingsMu sync.Mutex

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, shifts Shifts, platform Platform, settings SettingsHolder, guildID string) *Service {
	return &Service{
		repo:     repo,
		shifts:   shifts,
		platform: platform,
		settings: settings,
		guildID:  guildID,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// UserMessage turns an action error into the text shown to the user.
func UserMessage(err error) string {
	var verr *model.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "❌ " + verr.Message
	case errors.Is(err, model.ErrAgentNotFound):
		return "❌ Cet utilisateur n'est pas un agent enregistré."
	case errors.Is(err, model.ErrAbsenceNotFound):
		return "❌ Demande d'absence introuvable."
	case errors.Is(err, model.ErrRoleNotFound):
		return "❌ Rôle introuvable."
	case errors.Is(err, model.ErrAgentExists):
		return "❌ Cet utilisateur est déjà enregistré comme agent."
	case errors.Is(err, model.ErrDuplicateMatricule):
		return "❌ Ce matricule est déjà attribué."
	case errors.Is(err, model.ErrDuplicateGameID):
		return "❌ Cet ID en jeu est déjà utilisé par un autre agent."
	case errors.Is(err, model.ErrAbsenceDecided):
		return "❌ Cette demande a déjà été traitée."
	case errors.Is(err, model.ErrNoOpenShift):
		return "❌ Aucun service en cours."
	case errors.Is(err, model.ErrShiftAlreadyOpen):
		return "❌ Un service est déjà en cours."
	default:
		return "❌ Une erreur inattendue est survenue. Réessaie plus tard."
	}
}

func (s *Service) notify(ctx context.Context, channelID, content string) {
	if channelID == "" {
		return
	}
	if err := s.platform.SendToChannel(ctx, channelID, content); err != nil {
		log.Printf("Failed to post to channel %s: %v", channelID, err)
	}
}

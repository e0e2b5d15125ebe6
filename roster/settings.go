package roster

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"roster-bot/model"
	"roster-bot/utils"

	"github.com/samber/lo"
)

// Keys of the settings persisted by admin actions. They overlay the
// settings file at startup.
const (
	SettingServiceChannels = "service_channel_ids"
	SettingAntiSpam        = "antispam"
	SettingSalary          = "salary"
)

// SettingsReader reads persisted settings.
type SettingsReader interface {
	GetSetting(ctx context.Context, key string, v any) (bool, error)
}

// ApplyOverrides returns base with every persisted runtime setting applied.
func ApplyOverrides(ctx context.Context, repo SettingsReader, base model.Settings) (model.Settings, error) {
	out := base
	var channels []string
	if ok, err := repo.GetSetting(ctx, SettingServiceChannels, &channels); err != nil {
		return base, err
	} else if ok {
		out.ServiceChannelIDs = channels
	}
	var antiSpam model.AntiSpamConfig
	if ok, err := repo.GetSetting(ctx, SettingAntiSpam, &antiSpam); err != nil {
		return base, err
	} else if ok {
		out.AntiSpam = antiSpam
	}
	var salary model.SalaryConfig
	if ok, err := repo.GetSetting(ctx, SettingSalary, &salary); err != nil {
		return base, err
	} else if ok {
		out.Salary = salary
	}
	return out, nil
}

// update applies fn to a copy of the current settings, persists the value
// returned by fn under key and then publishes the new settings.
func (s *Service) update(ctx context.Context, key string, fn func(*model.Settings) (any, error)) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	next := s.settings.Settings()
	value, err := fn(&next)
	if err != nil {
		return err
	}
	if err := s.repo.PutSetting(ctx, key, value); err != nil {
		return err
	}
	s.settings.SetSettings(next)
	return nil
}

func (s *Service) SetAntiSpam(ctx context.Context, window string, threshold int) (string, error) {
	d, err := utils.ParseDuration(strings.TrimSpace(window))
	if err != nil {
		return "", model.Invalid("window", "durée invalide : %s (ex. 60s, 2m)", window)
	}
	if d < time.Second {
		return "", model.Invalid("window", "la fenêtre doit être d'au moins 1s")
	}
	if threshold < 1 {
		return "", model.Invalid("threshold", "le seuil doit être d'au moins 1")
	}

	cfg := model.AntiSpamConfig{Window: d, Threshold: threshold}
	err = s.update(ctx, SettingAntiSpam, func(st *model.Settings) (any, error) {
		st.AntiSpam = cfg
		return cfg, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Anti-spam : bannissement après %d liens interdits en %s.", threshold, d), nil
}

func (s *Service) SetServiceChannels(ctx context.Context, channelIDs []string) (string, error) {
	channels := lo.Uniq(lo.Compact(channelIDs))
	if len(channels) == 0 {
		return "", model.Invalid("channels", "au moins un salon vocal est requis")
	}
	err := s.update(ctx, SettingServiceChannels, func(st *model.Settings) (any, error) {
		st.ServiceChannelIDs = channels
		return channels, nil
	})
	if err != nil {
		return "", err
	}
	mentions := lo.Map(channels, func(id string, _ int) string { return "<#" + id + ">" })
	return "✅ Salons de service : " + strings.Join(mentions, ", "), nil
}

// SetSalaryRank adds a rank at the lowest priority or updates it in place.
func (s *Service) SetSalaryRank(ctx context.Context, roleID, name string, base int64) (string, error) {
	if roleID == "" {
		return "", model.Invalid("role", "rôle manquant")
	}
	if base < 0 {
		return "", model.Invalid("base", "le salaire de base ne peut pas être négatif")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = roleID
	}

	err := s.update(ctx, SettingSalary, func(st *model.Settings) (any, error) {
		ranks := slices.Clone(st.Salary.Ranks)
		rank := model.SalaryRank{RoleID: roleID, Name: name, Base: base}
		if _, i, ok := lo.FindIndexOf(ranks, func(r model.SalaryRank) bool { return r.RoleID == roleID }); ok {
			ranks[i] = rank
		} else {
			ranks = append(ranks, rank)
		}
		st.Salary.Ranks = ranks
		return st.Salary, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Grade **%s** (<@&%s>) : salaire de base %d $.", name, roleID, base), nil
}

func (s *Service) RemoveSalaryRank(ctx context.Context, roleID string) (string, error) {
	err := s.update(ctx, SettingSalary, func(st *model.Settings) (any, error) {
		ranks := lo.Reject(st.Salary.Ranks, func(r model.SalaryRank, _ int) bool { return r.RoleID == roleID })
		if len(ranks) == len(st.Salary.Ranks) {
			return nil, model.ErrRoleNotFound
		}
		st.Salary.Ranks = ranks
		return st.Salary, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑️ Grade <@&%s> retiré du barème.", roleID), nil
}

func (s *Service) SetHourlyRate(ctx context.Context, rate float64) (string, error) {
	if rate < 0 {
		return "", model.Invalid("rate", "le taux horaire ne peut pas être négatif")
	}
	err := s.update(ctx, SettingSalary, func(st *model.Settings) (any, error) {
		st.Salary.HourlyRate = rate
		return st.Salary, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Prime horaire : %.2f $ par heure de service.", rate), nil
}

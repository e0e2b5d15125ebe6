package model

import "time"

// SalaryRank maps a role to a fixed base salary. Ranks are checked in order.
type SalaryRank struct {
	RoleID string `json:"role_id" mapstructure:"role_id"`
	Name   string `json:"name" mapstructure:"name"`
	Base   int64  `json:"base" mapstructure:"base"`
}

type SalaryConfig struct {
	HourlyRate float64      `json:"hourly_rate" mapstructure:"hourly_rate"`
	Ranks      []SalaryRank `json:"ranks" mapstructure:"ranks"`
}

type AntiSpamConfig struct {
	Window    time.Duration `json:"window" mapstructure:"window"`
	Threshold int           `json:"threshold" mapstructure:"threshold"`
}

const (
	DefaultSpamWindow    = 60 * time.Second
	DefaultSpamThreshold = 10
)

// Settings are the domain settings of the roster service. They come from the
// settings file and are overlaid by values changed at runtime.
type Settings struct {
	ServiceChannelIDs  []string       `json:"service_channel_ids" mapstructure:"service_channel_ids"`
	GatingRoleID       string         `json:"gating_role_id" mapstructure:"gating_role_id"`
	AdminRoleIDs       []string       `json:"admin_role_ids" mapstructure:"admin_role_ids"`
	ApproverRoleIDs    []string       `json:"approver_role_ids" mapstructure:"approver_role_ids"`
	AbsenceChannelID   string         `json:"absence_channel_id" mapstructure:"absence_channel_id"`
	CaseFileCategoryID string         `json:"case_file_category_id" mapstructure:"case_file_category_id"`
	AntiSpam           AntiSpamConfig `json:"antispam" mapstructure:"antispam"`
	Salary             SalaryConfig   `json:"salary" mapstructure:"salary"`
}

// Config stores the roster process configuration.
type Config struct {
	BotToken               string
	AppID                  string
	GuildID                string
	DBPath                 string
	SettingsFile           string
	LogChannelID           string
	SentryDSN              string
	DisableCommandRegister bool
	Settings               Settings
	// Seed whitelist from the settings file, applied when the store has none.
	SeedDomains  []string
	SeedChannels []string
}

// RelayConfig stores the feed relay process configuration.
type RelayConfig struct {
	Token           string
	ClientID        string
	APIURL          string
	APIKey          string
	SourceChannelID string
	SourceBotID     string
	NotifyChannelID string
	APIRatePerSec   float64
}

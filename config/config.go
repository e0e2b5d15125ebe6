package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"roster-bot/model"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type rosterEnv struct {
	BotToken               string `env:"BOT_TOKEN,required"`
	AppID                  string `env:"APP_ID"`
	GuildID                string `env:"GUILD_ID"`
	DBPath                 string `env:"DB_PATH" envDefault:"data/roster.db"`
	SettingsFile           string `env:"SETTINGS_FILE" envDefault:"data/roster.yaml"`
	LogChannelID           string `env:"LOG_CHANNEL_ID"`
	SentryDSN              string `env:"SENTRY_DSN"`
	DisableCommandRegister bool   `env:"DISABLE_COMMAND_REGISTER"`
}

type relayEnv struct {
	Token           string  `env:"DISCORD_TOKEN,required"`
	ClientID        string  `env:"DISCORD_CLIENT_ID"`
	APIURL          string  `env:"API_URL" envDefault:"https://zeroprice.alwaysdata.net/api.php"`
	APIKey          string  `env:"API_KEY"`
	SourceChannelID string  `env:"DRAFTBOT_CHANNEL_ID"`
	SourceBotID     string  `env:"DRAFTBOT_ID"`
	NotifyChannelID string  `env:"NOTIF_CHANNEL_ID"`
	APIRatePerSec   float64 `env:"API_RATE_PER_SECOND" envDefault:"5"`
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}
}

// Load loads the roster process configuration from the environment and the
// settings file.
func Load() (*model.Config, error) {
	loadDotEnv()

	var e rosterEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if e.LogChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}
	if e.GuildID == "" {
		log.Println("Warning: GUILD_ID not set, commands will be registered globally")
	}

	cfg := &model.Config{
		BotToken:               e.BotToken,
		AppID:                  e.AppID,
		GuildID:                e.GuildID,
		DBPath:                 e.DBPath,
		SettingsFile:           e.SettingsFile,
		LogChannelID:           e.LogChannelID,
		SentryDSN:              e.SentryDSN,
		DisableCommandRegister: e.DisableCommandRegister,
	}

	if err := LoadSettings(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSettings reads cfg.SettingsFile into cfg.Settings. A missing file leaves
// the defaults in place.
func LoadSettings(cfg *model.Config) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("antispam.window", model.DefaultSpamWindow)
	v.SetDefault("antispam.threshold", model.DefaultSpamThreshold)
	v.SetDefault("salary.hourly_rate", 0)

	if cfg.SettingsFile != "" {
		v.SetConfigFile(cfg.SettingsFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return fmt.Errorf("failed to read settings file %s: %w", cfg.SettingsFile, err)
			}
			log.Printf("Warning: settings file not found at %s, using defaults.", cfg.SettingsFile)
		}
	}

	var settings model.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	if settings.AntiSpam.Threshold < 1 {
		return fmt.Errorf("antispam.threshold must be at least 1, got %d", settings.AntiSpam.Threshold)
	}
	if settings.AntiSpam.Window <= 0 {
		return fmt.Errorf("antispam.window must be positive, got %s", settings.AntiSpam.Window)
	}

	cfg.Settings = settings
	cfg.SeedDomains = cleanList(v.GetStringSlice("antispam.whitelisted_domains"))
	cfg.SeedChannels = cleanList(v.GetStringSlice("antispam.whitelisted_channels"))
	return nil
}

// LoadRelay loads the feed relay process configuration from the environment.
func LoadRelay() (*model.RelayConfig, error) {
	loadDotEnv()

	var e relayEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if e.SourceChannelID == "" || e.SourceBotID == "" {
		log.Println("Warning: DRAFTBOT_CHANNEL_ID or DRAFTBOT_ID not set, automatic relay is disabled")
	}
	if e.NotifyChannelID == "" {
		log.Println("Warning: NOTIF_CHANNEL_ID not set, new listings will not be announced")
	}

	return &model.RelayConfig{
		Token:           e.Token,
		ClientID:        e.ClientID,
		APIURL:          e.APIURL,
		APIKey:          e.APIKey,
		SourceChannelID: e.SourceChannelID,
		SourceBotID:     e.SourceBotID,
		NotifyChannelID: e.NotifyChannelID,
		APIRatePerSec:   e.APIRatePerSec,
	}, nil
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"roster-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `
service_channel_ids: ["111", "222"]
gating_role_id: "900"
admin_role_ids: ["1"]
approver_role_ids: ["2"]
absence_channel_id: "333"
case_file_category_id: "444"
antispam:
  window: 90s
  threshold: 3
  whitelisted_domains: ["youtube.com", " twitch.tv "]
  whitelisted_channels: ["555"]
salary:
  hourly_rate: 150
  ranks:
    - role_id: "10"
      name: Capitaine
      base: 5000
    - role_id: "11"
      name: Agent
      base: 2000
`

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("GUILD_ID", "42")
	t.Setenv("SETTINGS_FILE", writeSettings(t, settingsYAML))
	t.Setenv("DISABLE_COMMAND_REGISTER", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "42", cfg.GuildID)
	assert.True(t, cfg.DisableCommandRegister)
	assert.Equal(t, []string{"111", "222"}, cfg.Settings.ServiceChannelIDs)
	assert.Equal(t, "900", cfg.Settings.GatingRoleID)
	assert.Equal(t, 90*time.Second, cfg.Settings.AntiSpam.Window)
	assert.Equal(t, 3, cfg.Settings.AntiSpam.Threshold)
	assert.Equal(t, 150.0, cfg.Settings.Salary.HourlyRate)
	assert.Equal(t, []model.SalaryRank{
		{RoleID: "10", Name: "Capitaine", Base: 5000},
		{RoleID: "11", Name: "Agent", Base: 2000},
	}, cfg.Settings.Salary.Ranks)
	assert.Equal(t, []string{"youtube.com", "twitch.tv"}, cfg.SeedDomains)
	assert.Equal(t, []string{"555"}, cfg.SeedChannels)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("SETTINGS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSpamWindow, cfg.Settings.AntiSpam.Window)
	assert.Equal(t, model.DefaultSpamThreshold, cfg.Settings.AntiSpam.Threshold)
	assert.Empty(t, cfg.SeedDomains)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadSettingsRejectsBadThreshold(t *testing.T) {
	cfg := &model.Config{SettingsFile: writeSettings(t, "antispam:\n  threshold: 0\n")}
	assert.Error(t, LoadSettings(cfg))
}

func TestLoadRelay(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "relay-token")
	t.Setenv("API_URL", "")
	os.Unsetenv("API_URL")
	t.Setenv("API_RATE_PER_SECOND", "2.5")
	t.Setenv("DRAFTBOT_CHANNEL_ID", "c1")
	t.Setenv("DRAFTBOT_ID", "b1")

	cfg, err := LoadRelay()
	require.NoError(t, err)
	assert.Equal(t, "relay-token", cfg.Token)
	assert.Equal(t, "https://zeroprice.alwaysdata.net/api.php", cfg.APIURL)
	assert.Equal(t, 2.5, cfg.APIRatePerSec)
	assert.Equal(t, "c1", cfg.SourceChannelID)
	assert.Equal(t, "b1", cfg.SourceBotID)
}

package bot

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"roster-bot/antispam"
	"roster-bot/commands"
	"roster-bot/config"
	"roster-bot/model"
	"roster-bot/roster"
	"roster-bot/shift"
	"roster-bot/utils/database/records"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	settings           atomic.Value // model.Settings
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	Repo     *records.Repository
	Gateway  *Gateway
	Tracker  *shift.Tracker
	Enforcer *antispam.Enforcer
	Roster   *roster.Service

	scheduler *Scheduler
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// Settings returns the domain settings in effect. Engines call it on every
// event so admin changes apply immediately.
func (b *Bot) Settings() model.Settings {
	return b.settings.Load().(model.Settings)
}

func (b *Bot) SetSettings(s model.Settings) {
	b.settings.Store(s)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, repo *records.Repository) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	// voice states are needed for BeforeUpdate and the purge snapshot
	dg.StateEnabled = true
	dg.State.TrackVoice = true
	dg.State.TrackMembers = true

	b := &Bot{
		Session: dg,
		Repo:    repo,
		Gateway: NewGateway(dg),
	}
	b.config.Store(cfg)
	b.settings.Store(cfg.Settings)

	b.Tracker = shift.NewTracker(repo, b, shift.NewLogNotifier(b.Gateway, cfg.LogChannelID))
	b.Enforcer = antispam.NewEnforcer(repo, b.Gateway, b, cfg.LogChannelID)
	b.Roster = roster.NewService(repo, b.Tracker, b.Gateway, b, cfg.GuildID)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// Prepare overlays persisted settings on the file settings and seeds the
// whitelist. It runs before the gateway connection is opened.
func (b *Bot) Prepare(ctx context.Context) error {
	cfg := b.GetConfig()
	settings, err := roster.ApplyOverrides(ctx, b.Repo, cfg.Settings)
	if err != nil {
		return fmt.Errorf("failed to apply persisted settings: %w", err)
	}
	b.SetSettings(settings)

	added, err := b.Roster.SeedWhitelist(ctx, cfg.SeedDomains, cfg.SeedChannels)
	if err != nil {
		return fmt.Errorf("failed to seed whitelist: %w", err)
	}
	if added > 0 {
		log.Printf("Seeded whitelist with %d entries from %s", added, cfg.SettingsFile)
	}
	return nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	b.Session.Close()
}

func (b *Bot) appID() string {
	if id := b.GetConfig().AppID; id != "" {
		return id
	}
	return b.Session.State.User.ID
}

func (b *Bot) RefreshCommands() {
	cfg := b.GetConfig()
	cmds := commands.GenerateCommands()
	log.Printf("Registering %d commands for guild %q...", len(cmds), cfg.GuildID)
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.appID(), cfg.GuildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", cfg.GuildID, err)
		return
	}
	b.RegisteredCommands = registered
}

// ReloadSettings re-reads the settings file and reapplies persisted overrides.
func (b *Bot) ReloadSettings(ctx context.Context) error {
	log.Println("Reloading settings...")
	cfg := *b.GetConfig()
	if err := config.LoadSettings(&cfg); err != nil {
		log.Printf("Error reloading settings: %v", err)
		return err
	}
	settings, err := roster.ApplyOverrides(ctx, b.Repo, cfg.Settings)
	if err != nil {
		log.Printf("Error applying persisted settings during reload: %v", err)
		return err
	}
	b.config.Store(&cfg)
	b.SetSettings(settings)
	log.Println("Settings reloaded successfully.")
	return nil
}

package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roster-bot/commands"
	"roster-bot/feed"
	"roster-bot/model"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const apiTimeout = 15 * time.Second

// RelayBot is the feed relay process: it copies free-game announcements into
// the listing API and serves the listing slash commands.
type RelayBot struct {
	Session         *discordgo.Session
	Relay           *feed.Relay
	CommandHandlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	config          *model.RelayConfig
}

func NewRelayBot(cfg *model.RelayConfig) (*RelayBot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	dg.StateEnabled = false

	client := feed.NewClient(cfg.APIURL, cfg.APIKey, utils.NewHTTPClient(apiTimeout), cfg.APIRatePerSec)
	return &RelayBot{
		Session: dg,
		Relay:   feed.NewRelay(client, dg, *cfg),
		config:  cfg,
	}, nil
}

func (r *RelayBot) GetConfig() *model.RelayConfig {
	return r.config
}

func (r *RelayBot) Run(ctx context.Context) error {
	if err := r.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer r.Session.Close()

	appID := r.config.ClientID
	if appID == "" && r.Session.State != nil && r.Session.State.User != nil {
		appID = r.Session.State.User.ID
	}
	cmds := commands.GenerateRelayCommands()
	log.Printf("Registering %d relay commands...", len(cmds))
	if _, err := r.Session.ApplicationCommandBulkOverwrite(appID, "", cmds); err != nil {
		log.Printf("cannot register relay commands: %v", err)
	}

	log.Printf("Relay is now running, watching channel %s", r.config.SourceChannelID)
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(sc)
	select {
	case <-sc:
	case <-ctx.Done():
	}
	log.Println("Gracefully shutting down relay.")
	return nil
}

package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"roster-bot/model"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// API is the listing backend.
type API interface {
	CheckExists(ctx context.Context, title string) (bool, error)
	AutoAdd(ctx context.Context, l model.Listing) (string, error)
	AddGame(ctx context.Context, in GameInput) (string, error)
	DeleteGame(ctx context.Context, id int) error
	ListGames(ctx context.Context, limit int) ([]model.GameSummary, error)
	Rate(ctx context.Context, r model.Rating) error
	Stats(ctx context.Context) (model.PlatformStats, error)
}

type RelayResult int

const (
	RelaySkipped RelayResult = iota
	RelayUnparsed
	RelayDuplicate
	RelayAdded
)

const (
	colorGreen  = 0x10b981
	colorRed    = 0xef4444
	colorBlue   = 0x3b82f6
	colorYellow = 0xfbbf24
	colorPurple = 0x8b5cf6
)

// Relay copies free-game announcements of the source bot into the listing
// API and announces new entries.
type Relay struct {
	api    API
	sender utils.EmbedSender
	cfg    model.RelayConfig
	now    func() time.Time
}

func NewRelay(api API, sender utils.EmbedSender, cfg model.RelayConfig) *Relay {
	return &Relay{api: api, sender: sender, cfg: cfg, now: time.Now}
}

// HandleMessage processes one message. Messages outside the source channel
// or from another author are skipped.
func (r *Relay) HandleMessage(ctx context.Context, m *discordgo.Message) (RelayResult, error) {
	if m.ChannelID != r.cfg.SourceChannelID || m.Author == nil || m.Author.ID != r.cfg.SourceBotID {
		return RelaySkipped, nil
	}
	log.Printf("Announcement from source bot in %s", m.ChannelID)

	listing := ParseDraftBot(m, r.now())
	if listing == nil {
		log.Printf("Could not parse announcement %s", m.ID)
		return RelayUnparsed, nil
	}

	exists, err := r.api.CheckExists(ctx, listing.Title)
	if err != nil {
		return RelayUnparsed, fmt.Errorf("checking %q: %w", listing.Title, err)
	}
	if exists {
		log.Printf("Game already listed: %s", listing.Title)
		return RelayDuplicate, nil
	}

	id, err := r.api.AutoAdd(ctx, *listing)
	if err != nil {
		return RelayUnparsed, fmt.Errorf("adding %q: %w", listing.Title, err)
	}
	log.Printf("Game added: %s (ID: %s)", listing.Title, id)

	r.announce(autoAddEmbed(*listing))
	return RelayAdded, nil
}

func (r *Relay) announce(embed *discordgo.MessageEmbed) {
	if r.cfg.NotifyChannelID == "" {
		return
	}
	if _, err := r.sender.ChannelMessageSendEmbed(r.cfg.NotifyChannelID, embed); err != nil {
		log.Printf("Failed to announce in %s: %v", r.cfg.NotifyChannelID, err)
	}
}

func autoAddEmbed(l model.Listing) *discordgo.MessageEmbed {
	until := "N/A"
	if l.FreeUntil != nil {
		until = *l.FreeUntil
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🆕 " + l.Title,
		Description: "Ajouté automatiquement depuis DraftBot",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🪟 Store", Value: l.Store, Inline: true},
			{Name: "💻 Plateforme", Value: l.Platform, Inline: true},
			{Name: "⏰ Jusqu'au", Value: until, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ZeroPrice - Auto-ajout"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if l.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: l.ImageURL}
	}
	return embed
}

// ErrorMessage renders an action error for the user, exposing API error text.
func ErrorMessage(err error) string {
	var apiErr *APIError
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return "❌ " + verr.Message
	case errors.As(err, &apiErr):
		return fmt.Sprintf("❌ Erreur: `%s`", apiErr.Error())
	default:
		return fmt.Sprintf("❌ Erreur: `%v`", err)
	}
}

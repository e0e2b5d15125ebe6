package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"roster-bot/bot"
	"roster-bot/feed"
	"roster-bot/model"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const relayTimeout = 30 * time.Second

// RelayActions is the command surface of feed.Relay.
type RelayActions interface {
	AddGame(ctx context.Context, in feed.GameInput) (*discordgo.MessageEmbed, error)
	DeleteGame(ctx context.Context, id int) (*discordgo.MessageEmbed, error)
	ListGames(ctx context.Context, limit int) (*discordgo.MessageEmbed, error)
	Rate(ctx context.Context, rating model.Rating) (*discordgo.MessageEmbed, error)
	Stats(ctx context.Context) (*discordgo.MessageEmbed, error)
}

// relayEphemeral lists the commands whose reply only the caller sees.
var relayEphemeral = map[string]bool{
	"retirer": true,
	"avis":    true,
}

func runRelayCommand(ctx context.Context, relay RelayActions, userID, name string, opts options) (*discordgo.MessageEmbed, error) {
	switch name {
	case "ajouter":
		in := feed.GameInput{
			Title:       opts.String("titre"),
			ImageURL:    opts.String("image"),
			GameURL:     opts.String("lien"),
			Description: opts.String("description"),
			Platform:    opts.String("plateforme"),
			Genre:       opts.String("genre"),
			GameType:    opts.String("type"),
		}
		if until := opts.String("date-fin"); until != "" {
			in.FreeUntil = &until
		}
		return relay.AddGame(ctx, in)
	case "retirer":
		return relay.DeleteGame(ctx, int(opts.Int("id", 0)))
	case "liste":
		return relay.ListGames(ctx, int(opts.Int("limite", 0)))
	case "avis":
		rating := model.Rating{
			GameID:     int(opts.Int("id", 0)),
			UserID:     userID,
			Story:      int(opts.Int("histoire", 0)),
			Gameplay:   int(opts.Int("gameplay", 0)),
			Graphics:   int(opts.Int("graphismes", 0)),
			Soundtrack: int(opts.Int("musique", 0)),
		}
		if comment := opts.String("commentaire"); comment != "" {
			rating.ReviewText = &comment
		}
		return relay.Rate(ctx, rating)
	case "stats":
		return relay.Stats(ctx)
	}
	return nil, fmt.Errorf("unknown command %s", name)
}

func RegisterRelay(r *bot.RelayBot) {
	r.Session.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		log.Printf("Relay logged in as: %v", ready.User.Username)
	})
	r.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		defer utils.Recover("relay/message_create")
		ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
		defer cancel()
		if _, err := r.Relay.HandleMessage(ctx, m.Message); err != nil {
			log.Printf("Relay failed for message %s: %v", m.ID, err)
			utils.ReportError("relay", err)
		}
	})
	r.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer utils.Recover("relay/interaction_create")
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		handleRelayCommand(s, i, r.Relay)
	})
}

func handleRelayCommand(s *discordgo.Session, i *discordgo.InteractionCreate, relay RelayActions) {
	data := i.ApplicationCommandData()
	if err := utils.DeferResponse(s, i, relayEphemeral[data.Name]); err != nil {
		log.Printf("Failed to defer /%s: %v", data.Name, err)
		return
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
	defer cancel()
	embed, err := runRelayCommand(ctx, relay, userID, data.Name, newOptions(data.Options))
	if err != nil {
		log.Printf("/%s failed: %v", data.Name, err)
		utils.SendFollowUp(s, i.Interaction, feed.ErrorMessage(err))
		return
	}
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}

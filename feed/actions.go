package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roster-bot/model"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultListLimit = 10
	maxListLimit     = 20
)

// AddGame lists a game by hand and announces it.
func (r *Relay) AddGame(ctx context.Context, in GameInput) (*discordgo.MessageEmbed, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, model.Invalid("titre", "le titre est obligatoire")
	}
	if in.FreeUntil != nil && strings.TrimSpace(*in.FreeUntil) == "" {
		in.FreeUntil = nil
	}

	id, err := r.api.AddGame(ctx, in)
	if err != nil {
		return nil, err
	}

	kind := "Gratuit temporaire"
	if in.GameType == TypePermanent {
		kind = "Gratuit permanent"
	}
	reply := &discordgo.MessageEmbed{
		Title: "✅ Jeu ajouté avec succès !",
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎮 Titre", Value: in.Title, Inline: true},
			{Name: "🏷️ ID", Value: "#" + id, Inline: true},
			{Name: "💻 Plateforme", Value: in.Platform, Inline: true},
			{Name: "🎯 Genre", Value: in.Genre, Inline: true},
			{Name: "⚡ Type", Value: kind, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ZeroPrice - Gestion des jeux"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if in.ImageURL != "" {
		reply.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: in.ImageURL}
	}

	notice := &discordgo.MessageEmbed{
		Title:       "🆕 " + in.Title,
		Description: in.Description,
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 Plateforme", Value: in.Platform, Inline: true},
			{Name: "🎯 Genre", Value: in.Genre, Inline: true},
			{Name: "🔗 Lien", Value: fmt.Sprintf("[Jouer maintenant](%s)", in.GameURL)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Nouveau jeu gratuit disponible !"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if in.ImageURL != "" {
		notice.Image = &discordgo.MessageEmbedImage{URL: in.ImageURL}
	}
	r.announce(notice)
	return reply, nil
}

func (r *Relay) DeleteGame(ctx context.Context, id int) (*discordgo.MessageEmbed, error) {
	if err := r.api.DeleteGame(ctx, id); err != nil {
		return nil, err
	}
	return &discordgo.MessageEmbed{
		Title:       "✅ Jeu supprimé",
		Description: fmt.Sprintf("Le jeu #%d a été supprimé avec succès.", id),
		Color:       colorRed,
		Timestamp:   time.Now().Format(time.RFC3339),
	}, nil
}

// ListGames shows the latest games; limit defaults to 10 and is capped at 20.
func (r *Relay) ListGames(ctx context.Context, limit int) (*discordgo.MessageEmbed, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	games, err := r.api.ListGames(ctx, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(games))
	for _, g := range games {
		lines = append(lines, fmt.Sprintf("**#%v** - %s (%s) - ⭐ %s", g.ID, g.Title, g.Platform, display(g.AverageRating, "N/A")))
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📋 Derniers jeux ajoutés (%d)", len(games)),
		Description: strings.Join(lines, "\n"),
		Color:       colorBlue,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Utilisez /avis [id] pour noter un jeu"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}, nil
}

// Rate submits a review. Every score must be between 1 and 5.
func (r *Relay) Rate(ctx context.Context, rating model.Rating) (*discordgo.MessageEmbed, error) {
	scores := []int{rating.Story, rating.Gameplay, rating.Graphics, rating.Soundtrack}
	for _, v := range scores {
		if v < 1 || v > 5 {
			return nil, model.Invalid("note", "Les notes doivent être entre 1 et 5.")
		}
	}
	if rating.ReviewText != nil && strings.TrimSpace(*rating.ReviewText) == "" {
		rating.ReviewText = nil
	}
	if err := r.api.Rate(ctx, rating); err != nil {
		return nil, err
	}

	average := float64(rating.Story+rating.Gameplay+rating.Graphics+rating.Soundtrack) / 4
	return &discordgo.MessageEmbed{
		Title: "✅ Avis enregistré !",
		Color: colorYellow,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📖 Histoire", Value: fmt.Sprintf("%d⭐", rating.Story), Inline: true},
			{Name: "🎮 Gameplay", Value: fmt.Sprintf("%d⭐", rating.Gameplay), Inline: true},
			{Name: "🎨 Graphismes", Value: fmt.Sprintf("%d⭐", rating.Graphics), Inline: true},
			{Name: "🎵 Musique", Value: fmt.Sprintf("%d⭐", rating.Soundtrack), Inline: true},
			{Name: "📊 Moyenne", Value: fmt.Sprintf("%.1f/5", average)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Merci pour votre avis !"},
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

func (r *Relay) Stats(ctx context.Context) (*discordgo.MessageEmbed, error) {
	stats, err := r.api.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &discordgo.MessageEmbed{
		Title: "📊 Statistiques ZeroPrice",
		Color: colorPurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎮 Jeux totaux", Value: display(stats.TotalGames, "0"), Inline: true},
			{Name: "🆓 Jeux gratuits", Value: display(stats.FreeGames, "0"), Inline: true},
			{Name: "🔥 Promos actives", Value: display(stats.ActivePromos, "0"), Inline: true},
			{Name: "👥 Utilisateurs", Value: display(stats.TotalUsers, "0"), Inline: true},
			{Name: "⭐ Note moyenne", Value: display(stats.AvgRating, "N/A"), Inline: true},
			{Name: "💬 Avis", Value: display(stats.TotalRatings, "0"), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// display renders a loosely typed API value, using fallback for empty ones.
func display(v any, fallback string) string {
	switch x := v.(type) {
	case nil:
		return fallback
	case string:
		if x == "" {
			return fallback
		}
		return x
	case float64:
		if x == 0 {
			return fallback
		}
		return fmt.Sprint(x)
	default:
		return fmt.Sprint(x)
	}
}

package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roster-bot/bot"
	"roster-bot/model"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const maxChoices = 25

// absenceChoices suggests pending requests whose id, requester or reason
// contains what the user typed.
func absenceChoices(pending []model.AbsenceRequest, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	matches := lo.Filter(pending, func(a model.AbsenceRequest, _ int) bool {
		return typed == "" ||
			strings.Contains(strings.ToLower(a.ID), typed) ||
			strings.Contains(a.RequesterID, typed) ||
			strings.Contains(strings.ToLower(a.Reason), typed)
	})
	if len(matches) > maxChoices {
		matches = matches[:maxChoices]
	}
	return lo.Map(matches, func(a model.AbsenceRequest, _ int) *discordgo.ApplicationCommandOptionChoice {
		name := fmt.Sprintf("%s → %s : %s", a.StartDate.Format(utils.DateLayout), a.EndDate.Format(utils.DateLayout), a.Reason)
		if r := []rune(name); len(r) > 100 {
			name = string(r[:99]) + "…"
		}
		return &discordgo.ApplicationCommandOptionChoice{Name: name, Value: a.ID}
	})
}

func handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	sub, opts := commandPath(data)
	var choices []*discordgo.ApplicationCommandOptionChoice

	switch data.Name + "/" + sub {
	case "absence/decider":
		name, typed, ok := opts.Focused()
		if !ok || name != "id" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		pending, err := b.Repo.ListAbsences(ctx, model.AbsencePending)
		if err != nil {
			log.Printf("Autocomplete: failed to list pending absences: %v", err)
			return
		}
		choices = absenceChoices(pending, typed)
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		log.Printf("Error responding to autocomplete: %v", err)
	}
}

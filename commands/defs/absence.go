package defs

import "github.com/bwmarrin/discordgo"

var Absence = &discordgo.ApplicationCommand{
	Name:        "absence",
	Description: "Demandes d'absence",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.EnglishUS: "Leave requests",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "demander",
			Description: "Déposer une demande d'absence",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "debut",
					Description: "Premier jour (AAAA-MM-JJ)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "fin",
					Description: "Dernier jour (AAAA-MM-JJ)",
					Required:    true,
				},
				reasonOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "decider",
			Description: "Accepter ou refuser une demande",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "id",
					Description:  "Identifiant de la demande",
					Required:     true,
					Autocomplete: true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "decision",
					Description: "Décision",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Accepter", Value: "approve"},
						{Name: "Refuser", Value: "reject"},
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "liste",
			Description: "Lister les demandes",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "statut",
					Description: "Filtrer par statut",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "En attente", Value: "pending"},
						{Name: "Acceptées", Value: "approved"},
						{Name: "Refusées", Value: "rejected"},
					},
				},
			},
		},
	},
}

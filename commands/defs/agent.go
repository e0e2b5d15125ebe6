package defs

import "github.com/bwmarrin/discordgo"

var minMatricule = 1.0

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "agent",
		Description: description,
		Required:    required,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "raison",
		Description: "Motif",
		Required:    true,
		MaxLength:   1000,
	}
}

var Agent = &discordgo.ApplicationCommand{
	Name:        "agent",
	Description: "Gestion des agents",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.EnglishUS: "Manage roster agents",
		discordgo.EnglishGB: "Manage roster agents",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "enregistrer",
			Description: "Enregistrer un nouvel agent",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Membre à enregistrer", true),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "matricule",
					Description: "Matricule (1-99)",
					Required:    true,
					MinValue:    &minMatricule,
					MaxValue:    99,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id-jeu",
					Description: "Identifiant en jeu",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "salaire",
					Description: "Salaire de base si aucun grade ne s'applique",
					Required:    false,
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "dossier",
					Description:  "Salon dossier existant (sinon créé automatiquement)",
					Required:     false,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "supprimer",
			Description: "Supprimer un agent et son historique de service",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent à supprimer", true)},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "info",
			Description: "Afficher la fiche d'un agent",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent", true)},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "liste",
			Description: "Lister les agents",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "recompense",
			Description: "Ajouter une récompense au dossier",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent", true), reasonOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "sanction",
			Description: "Ajouter une sanction au dossier",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent", true), reasonOption()},
		},
	},
}

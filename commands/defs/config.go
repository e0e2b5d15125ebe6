package defs

import "github.com/bwmarrin/discordgo"

var minThreshold = 1.0

var Config = &discordgo.ApplicationCommand{
	Name:        "config",
	Description: "Réglages du bot",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.EnglishUS: "Bot settings",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "antispam",
			Description: "Fenêtre et seuil de l'anti-liens",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "fenetre",
					Description: "Durée de la fenêtre (ex. 60s, 5m)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seuil",
					Description: "Nombre d'infractions avant bannissement",
					Required:    true,
					MinValue:    &minThreshold,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "salons-service",
			Description: "Salons vocaux qui comptent comme service",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "salons",
					Description: "Mentions ou identifiants séparés par des espaces",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "grade",
			Description: "Définir le salaire d'un grade",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Rôle du grade",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "nom",
					Description: "Nom affiché",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "base",
					Description: "Salaire de base",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "retirer-grade",
			Description: "Retirer un grade",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Rôle du grade",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "taux",
			Description: "Prime par heure de service",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "taux",
					Description: "Montant par heure",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "recharger",
			Description: "Relire le fichier de réglages",
		},
	},
}

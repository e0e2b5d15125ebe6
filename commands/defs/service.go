package defs

import "github.com/bwmarrin/discordgo"

var Service = &discordgo.ApplicationCommand{
	Name:        "service",
	Description: "Temps de service",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.EnglishUS: "Duty time tracking",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "statut",
			Description: "Service en cours et total travaillé",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent (vous par défaut)", false)},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "salaire",
			Description: "Calculer le salaire",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent (vous par défaut)", false)},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "purge",
			Description: "Fermer les services des agents absents des salons vocaux",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reset",
			Description: "Effacer l'historique de service d'un agent",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Agent", true)},
		},
	},
}

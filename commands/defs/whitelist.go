package defs

import "github.com/bwmarrin/discordgo"

func domainOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "domaine",
		Description: "Domaine ou URL (ex. youtube.com)",
		Required:    true,
	}
}

func channelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionChannel,
		Name:        "salon",
		Description: "Salon",
		Required:    true,
	}
}

var Whitelist = &discordgo.ApplicationCommand{
	Name:        "whitelist",
	Description: "Liens autorisés",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.EnglishUS: "Link whitelist",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "ajouter-domaine",
			Description: "Autoriser un domaine",
			Options:     []*discordgo.ApplicationCommandOption{domainOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "retirer-domaine",
			Description: "Retirer un domaine autorisé",
			Options:     []*discordgo.ApplicationCommandOption{domainOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "ajouter-salon",
			Description: "Ne plus vérifier les liens dans un salon",
			Options:     []*discordgo.ApplicationCommandOption{channelOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "retirer-salon",
			Description: "Vérifier de nouveau les liens dans un salon",
			Options:     []*discordgo.ApplicationCommandOption{channelOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "liste",
			Description: "Afficher la liste blanche",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "bans",
			Description: "Derniers bannissements automatiques",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limite",
					Description: "Nombre (max 25)",
					Required:    false,
				},
			},
		},
	},
}

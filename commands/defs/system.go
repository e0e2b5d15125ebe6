package defs

import "github.com/bwmarrin/discordgo"

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "systeme",
	Description: "État du bot et du serveur",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.EnglishUS: "Display bot and system status information",
	},
}

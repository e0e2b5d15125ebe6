package commands

import (
	"roster-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the slash commands of the roster process.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Agent,
		defs.Absence,
		defs.Service,
		defs.Whitelist,
		defs.Config,
		defs.SystemInfo,
	}
}

// GenerateRelayCommands returns the slash commands of the feed relay process.
func GenerateRelayCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.AddGame,
		defs.DeleteGame,
		defs.ListGames,
		defs.RateGame,
		defs.Stats,
	}
}

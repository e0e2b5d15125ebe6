package defs

import "github.com/bwmarrin/discordgo"

var (
	minRating   = 1.0
	minGameID   = 1.0
	minListSize = 1.0

	// ajouter and retirer default to members who can manage the server
	manageGuild int64 = discordgo.PermissionManageGuild
)

func choices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return out
}

func ratingOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    true,
		MinValue:    &minRating,
		MaxValue:    5,
	}
}

var AddGame = &discordgo.ApplicationCommand{
	Name:                     "ajouter",
	Description:              "Ajouter un jeu gratuit",
	DefaultMemberPermissions: &manageGuild,
	Options:                  []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: "titre", Description: "Nom du jeu", Required: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "image", Description: "URL de l'image", Required: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "lien", Description: "Lien vers le jeu", Required: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Description", Required: true},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "plateforme",
			Description: "Plateforme",
			Required:    true,
			Choices:     choices("PC", "PlayStation", "Xbox", "Switch", "Mobile", "Multi"),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "genre",
			Description: "Genre",
			Required:    true,
			Choices:     choices("Action", "Aventure", "RPG", "FPS", "Battle Royale", "MOBA", "Sport", "Stratégie"),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "Type",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Gratuit Permanent", Value: "permanent"},
				{Name: "Gratuit Temporaire", Value: "temporaire"},
			},
		},
		{Type: discordgo.ApplicationCommandOptionString, Name: "date-fin", Description: "Date fin (YYYY-MM-DD HH:mm)", Required: false},
	},
}

var DeleteGame = &discordgo.ApplicationCommand{
	Name:                     "retirer",
	Description:              "Retirer un jeu",
	DefaultMemberPermissions: &manageGuild,
	Options:                  []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "ID du jeu", Required: true, MinValue: &minGameID},
	},
}

var ListGames = &discordgo.ApplicationCommand{
	Name:        "liste",
	Description: "Derniers jeux ajoutés",
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "limite", Description: "Nombre (max 20)", Required: false, MinValue: &minListSize, MaxValue: 20},
	},
}

var RateGame = &discordgo.ApplicationCommand{
	Name:        "avis",
	Description: "Noter un jeu",
	Options: []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "ID du jeu", Required: true, MinValue: &minGameID},
		ratingOption("histoire", "Note Histoire (1-5)"),
		ratingOption("gameplay", "Note Gameplay (1-5)"),
		ratingOption("graphismes", "Note Graphismes (1-5)"),
		ratingOption("musique", "Note Musique (1-5)"),
		{Type: discordgo.ApplicationCommandOptionString, Name: "commentaire", Description: "Commentaire (optionnel)", Required: false},
	},
}

var Stats = &discordgo.ApplicationCommand{
	Name:        "stats",
	Description: "Statistiques de la plateforme",
}

package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"roster-bot/bot"
	"roster-bot/roster"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const commandTimeout = 30 * time.Second

var errForbidden = errors.New("permission denied")

func replyFor(err error) string {
	if errors.Is(err, errForbidden) {
		return "❌ Tu n'as pas la permission d'utiliser cette commande."
	}
	return roster.UserMessage(err)
}

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	rosterCommand := func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleRosterCommand(s, i, b)
	}
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"agent":     rosterCommand,
		"absence":   rosterCommand,
		"service":   rosterCommand,
		"whitelist": rosterCommand,
		"config": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if sub, _ := commandPath(i.ApplicationCommandData()); sub == "recharger" {
				handleReload(s, i, b)
				return
			}
			handleRosterCommand(s, i, b)
		},
		"systeme": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if who, ok := actorOf(i, b); !ok || who.Level != utils.AdminPermission {
				utils.SendSimpleResponse(s, i, replyFor(errForbidden))
				return
			}
			SystemInfoHandler(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	d := NewDispatcher(b.Tracker, b.Enforcer, b.Roster, b.GetConfig().GuildID)

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		defer utils.Recover("voice_state_update")
		d.dispatch("voice_state_update", PresenceFromVoiceState(vs, time.Now()))
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		defer utils.Recover("message_create")
		if m.Author == nil || m.Author.ID == s.State.User.ID {
			return
		}
		d.dispatch("message_create", MessageFromCreate(m))
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		defer utils.Recover("guild_member_remove")
		d.dispatch("guild_member_remove", DepartureFromRemove(m))
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer utils.Recover("interaction_create")
		handleInteractionCreate(s, i, b)
	})
}

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		handleAutocomplete(s, i, b)
	}
}

func actorOf(i *discordgo.InteractionCreate, b *bot.Bot) (actor, bool) {
	if i.Member == nil || i.Member.User == nil {
		return actor{}, false
	}
	settings := b.Settings()
	return actor{
		UserID: i.Member.User.ID,
		Level:  utils.CheckPermission(i.Member, settings.AdminRoleIDs, settings.ApproverRoleIDs),
	}, true
}

func handleRosterCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	who, ok := actorOf(i, b)
	if !ok {
		utils.SendErrorResponse(s, i, "Cette commande doit être utilisée sur le serveur.")
		return
	}
	data := i.ApplicationCommandData()
	sub, opts := commandPath(data)

	// reject early so the denial is not deferred
	if !allowed(who.Level, requiredLevel(data.Name, sub, opts, who.UserID)) {
		utils.SendSimpleResponse(s, i, replyFor(errForbidden))
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer /%s %s: %v", data.Name, sub, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	msg, err := runRosterCommand(ctx, b.Roster, who, data.Name, sub, opts)
	if err != nil {
		log.Printf("/%s %s by %s failed: %v", data.Name, sub, who.UserID, err)
		if !isExpected(err) {
			utils.ReportError("/"+data.Name+" "+sub, err)
		}
		msg = replyFor(err)
	}
	utils.SendFollowUp(s, i.Interaction, truncateReply(msg))
}

func handleReload(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	who, ok := actorOf(i, b)
	if !ok || who.Level != utils.AdminPermission {
		utils.SendSimpleResponse(s, i, replyFor(errForbidden))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := b.ReloadSettings(ctx); err != nil {
		utils.SendErrorResponse(s, i, "Impossible de recharger les réglages : "+err.Error())
		return
	}
	utils.LogInfo(b.Gateway, b.GetConfig().LogChannelID, "System", "Réglages", "Réglages rechargés par <@"+who.UserID+">")
	utils.SendSimpleResponse(s, i, "✅ Réglages rechargés.")
}

const maxReply = 2000

// truncateReply keeps a reply within Discord's message limit.
func truncateReply(msg string) string {
	r := []rune(msg)
	if len(r) <= maxReply {
		return msg
	}
	return string(r[:maxReply-1]) + "…"
}

package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"roster-bot/antispam"
	"roster-bot/model"
	"roster-bot/shift"
	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const eventTimeout = 20 * time.Second

type ShiftHandler interface {
	HandleTransition(ctx context.Context, ev model.PresenceTransition) (shift.Result, error)
}

type LinkHandler interface {
	Handle(ctx context.Context, msg model.MessagePosted) (antispam.Outcome, error)
}

type DepartureHandler interface {
	MemberDeparted(ctx context.Context, ev model.MemberDeparted) error
}

// Dispatcher routes platform events to the engine that owns them. Events of
// other guilds are dropped when a guild is configured.
type Dispatcher struct {
	shifts     ShiftHandler
	links      LinkHandler
	departures DepartureHandler
	guildID    string
}

func NewDispatcher(shifts ShiftHandler, links LinkHandler, departures DepartureHandler, guildID string) *Dispatcher {
	return &Dispatcher{shifts: shifts, links: links, departures: departures, guildID: guildID}
}

func (d *Dispatcher) accepts(guildID string) bool {
	return d.guildID == "" || guildID == d.guildID
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev model.Event) error {
	switch e := ev.(type) {
	case model.PresenceTransition:
		if !d.accepts(e.GuildID) {
			return nil
		}
		res, err := d.shifts.HandleTransition(ctx, e)
		if err != nil {
			return fmt.Errorf("presence of %s: %w", e.UserID, err)
		}
		if res.Action == shift.ActionBusy {
			log.Printf("Dropped presence event of %s: previous event still in progress", e.UserID)
		}
		return nil
	case model.MessagePosted:
		// DMs carry no guild and are handed to the enforcer, which ignores them
		if e.GuildID != "" && !d.accepts(e.GuildID) {
			return nil
		}
		out, err := d.links.Handle(ctx, e)
		if err != nil {
			return fmt.Errorf("message %s: %w", e.MessageID, err)
		}
		if out.Verdict == antispam.VerdictBanned || out.Verdict == antispam.VerdictBanFailed {
			log.Printf("Link enforcement for %s: %s after %d infractions", e.AuthorID, out.Verdict, out.Count)
		}
		return nil
	case model.MemberDeparted:
		if !d.accepts(e.GuildID) {
			return nil
		}
		return d.departures.MemberDeparted(ctx, e)
	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
}

func (d *Dispatcher) dispatch(where string, ev model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	if err := d.Dispatch(ctx, ev); err != nil {
		log.Printf("[%s] %v", where, err)
		utils.ReportError(where, err)
	}
}

// PresenceFromVoiceState converts a voice state update. The previous channel
// comes from the state cache and is empty for a fresh connection.
func PresenceFromVoiceState(vs *discordgo.VoiceStateUpdate, now time.Time) model.PresenceTransition {
	ev := model.PresenceTransition{
		GuildID:      vs.GuildID,
		UserID:       vs.UserID,
		NewChannelID: vs.ChannelID,
		At:           now,
	}
	if vs.BeforeUpdate != nil {
		ev.PreviousChannelID = vs.BeforeUpdate.ChannelID
	}
	if vs.Member != nil {
		ev.Roles = vs.Member.Roles
	}
	return ev
}

func MessageFromCreate(m *discordgo.MessageCreate) model.MessagePosted {
	ev := model.MessagePosted{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Content:   m.Content,
		At:        m.Timestamp,
	}
	if m.Author != nil {
		ev.AuthorID = m.Author.ID
		ev.AuthorIsBot = m.Author.Bot
	}
	if m.Member != nil {
		ev.AuthorRoles = m.Member.Roles
	}
	for _, a := range m.Attachments {
		ev.AttachmentURLs = append(ev.AttachmentURLs, a.URL)
	}
	for _, e := range m.Embeds {
		ev.EmbedURLs = append(ev.EmbedURLs, embedURLs(e)...)
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	return ev
}

// embedURLs returns the link, image and thumbnail URLs of an embed.
func embedURLs(e *discordgo.MessageEmbed) []string {
	if e == nil {
		return nil
	}
	var urls []string
	if e.URL != "" {
		urls = append(urls, e.URL)
	}
	if e.Image != nil && e.Image.URL != "" {
		urls = append(urls, e.Image.URL)
	}
	if e.Thumbnail != nil && e.Thumbnail.URL != "" {
		urls = append(urls, e.Thumbnail.URL)
	}
	return urls
}

func DepartureFromRemove(m *discordgo.GuildMemberRemove) model.MemberDeparted {
	ev := model.MemberDeparted{}
	if m.Member != nil {
		ev.GuildID = m.GuildID
		if m.User != nil {
			ev.UserID = m.User.ID
		}
	}
	return ev
}

package antispam

import (
	"context"
	"fmt"
	"log"
	"time"

	"roster-bot/model"
	"roster-bot/utils"

	"github.com/samber/lo"
)

// Store keeps the per-(guild, user) infraction windows and the whitelist.
type Store interface {
	RecordInfraction(ctx context.Context, guildID, userID string, at time.Time, window time.Duration) ([]time.Time, error)
	ClearInfractions(ctx context.Context, guildID, userID string) error
	SweepInfractions(ctx context.Context, cutoff time.Time) (int64, error)
	Whitelist(ctx context.Context) (model.WhitelistConfig, error)
	AddBan(ctx context.Context, b model.BanRecord) (int64, error)
}

// Moderator performs the platform side effects of enforcement.
type Moderator interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendDirectMessage(ctx context.Context, userID, text string) error
	BanUser(ctx context.Context, guildID, userID, reason string) error
	SendToChannel(ctx context.Context, channelID, content string) error
}

type Verdict int

const (
	// VerdictIgnored: bots, direct messages and admins are not inspected.
	VerdictIgnored Verdict = iota
	VerdictClean
	VerdictWhitelisted
	VerdictViolation
	VerdictBanned
	VerdictBanFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictClean:
		return "clean"
	case VerdictWhitelisted:
		return "whitelisted"
	case VerdictViolation:
		return "violation"
	case VerdictBanned:
		return "banned"
	case VerdictBanFailed:
		return "ban-failed"
	default:
		return "ignored"
	}
}

type Outcome struct {
	Verdict Verdict
	// Count is the number of violations in the window after this message.
	Count     int
	Offending []string
}

// Enforcer applies the link whitelist to guild messages and bans users who
// reach the violation threshold inside the window.
type Enforcer struct {
	store        Store
	moderator    Moderator
	settings     model.SettingsProvider
	logChannelID string
	locks        *utils.KeyedMutex
	now          func() time.Time
}

func NewEnforcer(store Store, moderator Moderator, settings model.SettingsProvider, logChannelID string) *Enforcer {
	return &Enforcer{
		store:        store,
		moderator:    moderator,
		settings:     settings,
		logChannelID: logChannelID,
		locks:        utils.NewKeyedMutex(),
		now:          time.Now,
	}
}

func (e *Enforcer) limits() (time.Duration, int) {
	cfg := e.settings.Settings().AntiSpam
	window, threshold := cfg.Window, cfg.Threshold
	if window <= 0 {
		window = model.DefaultSpamWindow
	}
	if threshold <= 0 {
		threshold = model.DefaultSpamThreshold
	}
	return window, threshold
}

// Handle inspects one message. Deleting, warning and banning are each best
// effort; only storage errors are returned.
func (e *Enforcer) Handle(ctx context.Context, msg model.MessagePosted) (Outcome, error) {
	if msg.AuthorIsBot || msg.GuildID == "" {
		return Outcome{Verdict: VerdictIgnored}, nil
	}
	if lo.Some(msg.AuthorRoles, e.settings.Settings().AdminRoleIDs) {
		return Outcome{Verdict: VerdictIgnored}, nil
	}

	unlock := e.locks.Lock(msg.GuildID + ":" + msg.AuthorID)
	defer unlock()

	urls := ExtractURLs(msg)
	if len(urls) == 0 {
		return Outcome{Verdict: VerdictClean}, e.reset(ctx, msg)
	}

	wl, err := e.store.Whitelist(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading whitelist: %w", err)
	}
	if lo.Contains(wl.Channels, msg.ChannelID) {
		return Outcome{Verdict: VerdictWhitelisted}, e.reset(ctx, msg)
	}
	// URLs that do not parse are neither a pass nor a violation
	if !lo.SomeBy(urls, func(u string) bool { _, ok := DomainOf(u); return ok }) {
		return Outcome{Verdict: VerdictClean}, e.reset(ctx, msg)
	}
	offending := Offending(urls, wl.Domains)
	if len(offending) == 0 {
		return Outcome{Verdict: VerdictWhitelisted}, e.reset(ctx, msg)
	}

	return e.violation(ctx, msg, offending)
}

func (e *Enforcer) reset(ctx context.Context, msg model.MessagePosted) error {
	if err := e.store.ClearInfractions(ctx, msg.GuildID, msg.AuthorID); err != nil {
		return fmt.Errorf("clearing infractions: %w", err)
	}
	return nil
}

func (e *Enforcer) violation(ctx context.Context, msg model.MessagePosted, offending []string) (Outcome, error) {
	window, threshold := e.limits()
	at := msg.At
	if at.IsZero() {
		at = e.now()
	}
	out := Outcome{Verdict: VerdictViolation, Offending: offending}

	if err := e.moderator.DeleteMessage(ctx, msg.ChannelID, msg.MessageID); err != nil {
		log.Printf("Failed to delete message %s from %s: %v", msg.MessageID, msg.AuthorID, err)
	}

	times, storeErr := e.store.RecordInfraction(ctx, msg.GuildID, msg.AuthorID, at, window)
	if storeErr != nil {
		storeErr = fmt.Errorf("recording infraction: %w", storeErr)
		e.report(ctx, fmt.Sprintf("Impossible d'enregistrer l'infraction de <@%s> : %v", msg.AuthorID, storeErr))
	}
	out.Count = len(times)

	warning := fmt.Sprintf("⚠️ Ton message dans <#%s> contenait un lien non autorisé et a été supprimé.", msg.ChannelID)
	if storeErr == nil {
		warning += fmt.Sprintf(" Avertissement %d/%d.", out.Count, threshold)
	}
	if err := e.moderator.SendDirectMessage(ctx, msg.AuthorID, warning); err != nil {
		log.Printf("Failed to warn %s: %v", msg.AuthorID, err)
	}

	if storeErr != nil || out.Count < threshold {
		return out, storeErr
	}
	return e.ban(ctx, msg, out, window)
}

func (e *Enforcer) ban(ctx context.Context, msg model.MessagePosted, out Outcome, window time.Duration) (Outcome, error) {
	reason := fmt.Sprintf("Spam de liens non autorisés (%d en %s)", out.Count, window)
	record := model.BanRecord{
		GuildID:    msg.GuildID,
		UserID:     msg.AuthorID,
		Reason:     reason,
		Violations: out.Count,
		Status:     model.BanIssued,
		At:         e.now(),
	}

	banErr := e.moderator.BanUser(ctx, msg.GuildID, msg.AuthorID, reason)
	if banErr != nil {
		// The window is kept so the next violation retries the ban.
		record.Status = model.BanFailed
		record.Error = banErr.Error()
		out.Verdict = VerdictBanFailed
		e.report(ctx, fmt.Sprintf("Échec du bannissement de <@%s> après %d infractions : %v", msg.AuthorID, out.Count, banErr))
	} else {
		out.Verdict = VerdictBanned
		log.Printf("Banned %s from guild %s after %d link violations", msg.AuthorID, msg.GuildID, out.Count)
	}

	if _, err := e.store.AddBan(ctx, record); err != nil {
		log.Printf("Failed to record ban of %s: %v", msg.AuthorID, err)
	}
	if banErr != nil {
		return out, nil
	}

	out.Count = 0
	return out, e.reset(ctx, msg)
}

func (e *Enforcer) report(ctx context.Context, content string) {
	log.Printf("[antispam] %s", content)
	if e.logChannelID == "" {
		return
	}
	if err := e.moderator.SendToChannel(ctx, e.logChannelID, content); err != nil {
		log.Printf("Failed to report to log channel %s: %v", e.logChannelID, err)
	}
}

// Sweep drops every infraction older than the current window.
func (e *Enforcer) Sweep(ctx context.Context) (int64, error) {
	window, _ := e.limits()
	return e.store.SweepInfractions(ctx, e.now().Add(-window))
}

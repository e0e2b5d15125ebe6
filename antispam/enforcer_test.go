package antispam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"roster-bot/model"
	"roster-bot/utils/database/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type staticSettings model.Settings

func (s staticSettings) Settings() model.Settings { return model.Settings(s) }

type fakeModerator struct {
	mu       sync.Mutex
	deleted  []string
	dms      []string
	bans     []string
	reports  []string
	banErr   error
	dmErr    error
	deleteEr error
}

func (f *fakeModerator) DeleteMessage(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return f.deleteEr
}

func (f *fakeModerator) SendDirectMessage(_ context.Context, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, userID)
	return f.dmErr
}

func (f *fakeModerator) BanUser(_ context.Context, _, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bans = append(f.bans, userID)
	return f.banErr
}

func (f *fakeModerator) SendToChannel(_ context.Context, _, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, content)
	return nil
}

type fixture struct {
	enforcer *Enforcer
	repo     *records.Repository
	mod      *fakeModerator
}

func newFixture(t *testing.T, settings model.Settings) *fixture {
	t.Helper()
	repo, err := records.Init(filepath.Join(t.TempDir(), "antispam.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	_, err = repo.AddDomain(ctx, "approved.com")
	require.NoError(t, err)
	_, err = repo.AddChannel(ctx, "links")
	require.NoError(t, err)

	mod := &fakeModerator{}
	enf := NewEnforcer(repo, mod, staticSettings(settings), "log")
	enf.now = func() time.Time { return now }
	return &fixture{enforcer: enf, repo: repo, mod: mod}
}

func (f *fixture) count(t *testing.T, at time.Time) int {
	t.Helper()
	times, err := f.repo.Infractions(context.Background(), "g", "u", at, model.DefaultSpamWindow)
	require.NoError(t, err)
	return len(times)
}

func message(id, content string, at time.Time) model.MessagePosted {
	return model.MessagePosted{
		GuildID:   "g",
		ChannelID: "general",
		MessageID: id,
		AuthorID:  "u",
		Content:   content,
		At:        at,
	}
}

func TestEnforcerViolation(t *testing.T) {
	f := newFixture(t, model.Settings{})

	out, err := f.enforcer.Handle(context.Background(), message("m1", "promo https://evil.example/win", now))
	require.NoError(t, err)
	assert.Equal(t, VerdictViolation, out.Verdict)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, []string{"https://evil.example/win"}, out.Offending)

	assert.Equal(t, []string{"m1"}, f.mod.deleted)
	assert.Equal(t, []string{"u"}, f.mod.dms)
	assert.Empty(t, f.mod.bans)
	assert.Equal(t, 1, f.count(t, now))
}

func TestEnforcerBansAtThreshold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	for i := 0; i < 9; i++ {
		out, err := f.enforcer.Handle(ctx, message(fmt.Sprint(i), "https://evil.example", now.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
		assert.Equal(t, VerdictViolation, out.Verdict)
		assert.Equal(t, i+1, out.Count)
	}

	out, err := f.enforcer.Handle(ctx, message("10", "https://evil.example", now.Add(9*time.Second)))
	require.NoError(t, err)
	assert.Equal(t, VerdictBanned, out.Verdict)
	assert.Zero(t, out.Count)
	assert.Equal(t, []string{"u"}, f.mod.bans)
	assert.Zero(t, f.count(t, now.Add(9*time.Second)))
	assert.Empty(t, f.mod.reports)

	bans, err := f.repo.ListBans(ctx, "g", 5)
	require.NoError(t, err)
	require.Len(t, bans, 1)
	assert.Equal(t, model.BanIssued, bans[0].Status)
	assert.Equal(t, 10, bans[0].Violations)
}

func TestEnforcerBanFailureKeepsCounter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{AntiSpam: model.AntiSpamConfig{Window: time.Minute, Threshold: 2}})
	f.mod.banErr = errors.New("missing permissions")

	_, err := f.enforcer.Handle(ctx, message("1", "https://evil.example", now))
	require.NoError(t, err)
	out, err := f.enforcer.Handle(ctx, message("2", "https://evil.example", now.Add(time.Second)))
	require.NoError(t, err)
	assert.Equal(t, VerdictBanFailed, out.Verdict)
	assert.Equal(t, 2, out.Count)
	require.Len(t, f.mod.reports, 1)
	assert.Contains(t, f.mod.reports[0], "missing permissions")

	// next violation retries the ban
	f.mod.banErr = nil
	out, err = f.enforcer.Handle(ctx, message("3", "https://evil.example", now.Add(2*time.Second)))
	require.NoError(t, err)
	assert.Equal(t, VerdictBanned, out.Verdict)
	assert.Len(t, f.mod.bans, 2)

	bans, err := f.repo.ListBans(ctx, "g", 5)
	require.NoError(t, err)
	require.Len(t, bans, 2)
	assert.Equal(t, model.BanIssued, bans[0].Status)
	assert.Equal(t, model.BanFailed, bans[1].Status)
}

func TestEnforcerWhitelisted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	_, err := f.enforcer.Handle(ctx, message("1", "https://evil.example", now))
	require.NoError(t, err)
	require.Equal(t, 1, f.count(t, now))

	out, err := f.enforcer.Handle(ctx, message("2", "voir https://sub.approved.com/page", now.Add(time.Second)))
	require.NoError(t, err)
	assert.Equal(t, VerdictWhitelisted, out.Verdict)
	assert.Equal(t, []string{"1"}, f.mod.deleted)
	assert.Zero(t, f.count(t, now.Add(time.Second)))

	t.Run("whitelisted channel", func(t *testing.T) {
		msg := message("3", "https://evil.example", now.Add(2*time.Second))
		msg.ChannelID = "links"
		out, err := f.enforcer.Handle(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, VerdictWhitelisted, out.Verdict)
		assert.Len(t, f.mod.deleted, 1)
	})
}

func TestEnforcerCleanMessageResetsStreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	for i := 0; i < 3; i++ {
		_, err := f.enforcer.Handle(ctx, message(fmt.Sprint(i), "https://evil.example", now))
		require.NoError(t, err)
	}
	require.Equal(t, 3, f.count(t, now))

	out, err := f.enforcer.Handle(ctx, message("clean", "bonjour à tous", now.Add(time.Second)))
	require.NoError(t, err)
	assert.Equal(t, VerdictClean, out.Verdict)
	assert.Zero(t, f.count(t, now.Add(time.Second)))
	assert.Empty(t, f.mod.bans)
}

func TestEnforcerMalformedURLs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	out, err := f.enforcer.Handle(ctx, message("bad", "voir http://%zz", now))
	require.NoError(t, err)
	assert.Equal(t, VerdictClean, out.Verdict)
	assert.Empty(t, f.mod.deleted)

	out, err = f.enforcer.Handle(ctx, message("mixed", "http://%zz https://evil.example", now))
	require.NoError(t, err)
	assert.Equal(t, VerdictViolation, out.Verdict)
	assert.Equal(t, []string{"https://evil.example"}, out.Offending)
	assert.Equal(t, 1, f.count(t, now))
}

func TestEnforcerWindowPrunes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{AntiSpam: model.AntiSpamConfig{Window: 10 * time.Second, Threshold: 3}})

	for i, offset := range []time.Duration{0, 5 * time.Second, 20 * time.Second, 25 * time.Second} {
		out, err := f.enforcer.Handle(ctx, message(fmt.Sprint(i), "https://evil.example", now.Add(offset)))
		require.NoError(t, err)
		assert.Equal(t, VerdictViolation, out.Verdict)
		assert.LessOrEqual(t, out.Count, 2)
	}
	assert.Empty(t, f.mod.bans)

	times, err := f.repo.Infractions(ctx, "g", "u", now.Add(25*time.Second), 10*time.Second)
	require.NoError(t, err)
	for _, ts := range times {
		assert.False(t, ts.Before(now.Add(15*time.Second)))
	}
}

func TestEnforcerSideEffectsAreIndependent(t *testing.T) {
	f := newFixture(t, model.Settings{})
	f.mod.deleteEr = errors.New("unknown message")
	f.mod.dmErr = errors.New("cannot send messages to this user")

	out, err := f.enforcer.Handle(context.Background(), message("1", "https://evil.example", now))
	require.NoError(t, err)
	assert.Equal(t, VerdictViolation, out.Verdict)
	assert.Equal(t, 1, f.count(t, now))
	assert.Len(t, f.mod.dms, 1)
}

func TestEnforcerIgnores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{AdminRoleIDs: []string{"admin"}})

	bot := message("1", "https://evil.example", now)
	bot.AuthorIsBot = true
	dm := message("2", "https://evil.example", now)
	dm.GuildID = ""
	admin := message("3", "https://evil.example", now)
	admin.AuthorRoles = []string{"admin"}

	for _, msg := range []model.MessagePosted{bot, dm, admin} {
		out, err := f.enforcer.Handle(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, VerdictIgnored, out.Verdict)
	}
	assert.Empty(t, f.mod.deleted)
}

func TestEnforcerConcurrentViolationsAllCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{AntiSpam: model.AntiSpamConfig{Window: time.Minute, Threshold: 100}})

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.enforcer.Handle(ctx, message(fmt.Sprint(i), "https://evil.example", now))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 12, f.count(t, now))
}

func TestEnforcerSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	_, err := f.enforcer.Handle(ctx, message("1", "https://evil.example", now.Add(-2*time.Minute)))
	require.NoError(t, err)
	_, err = f.enforcer.Handle(ctx, message("2", "https://evil.example", now))
	require.NoError(t, err)

	n, err := f.enforcer.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	other := message("3", "https://evil.example", now.Add(-5*time.Minute))
	other.AuthorID = "other"
	_, err = f.enforcer.Handle(ctx, other)
	require.NoError(t, err)
	n, err = f.enforcer.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

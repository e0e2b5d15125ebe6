package roster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"roster-bot/model"
	"roster-bot/shift"
	"roster-bot/utils/database/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

type memSettings struct {
	mu sync.Mutex
	s  model.Settings
}

func (m *memSettings) Settings() model.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s
}

func (m *memSettings) SetSettings(s model.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
}

type fakePlatform struct {
	posts    map[string][]string
	dms      map[string][]string
	roles    map[string][]string
	voice    map[string]string
	dmErr    error
	channels int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{posts: map[string][]string{}, dms: map[string][]string{}, roles: map[string][]string{}}
}

func (f *fakePlatform) SendToChannel(_ context.Context, channelID, content string) error {
	f.posts[channelID] = append(f.posts[channelID], content)
	return nil
}

func (f *fakePlatform) SendDirectMessage(_ context.Context, userID, text string) error {
	f.dms[userID] = append(f.dms[userID], text)
	return f.dmErr
}

func (f *fakePlatform) MemberRoles(_ context.Context, _, userID string) ([]string, error) {
	return f.roles[userID], nil
}

func (f *fakePlatform) VoiceChannels(context.Context, string) (map[string]string, error) {
	return f.voice, nil
}

func (f *fakePlatform) CreateTextChannel(_ context.Context, _, _, name string) (string, error) {
	f.channels++
	return "chan-" + name, nil
}

type noopNotifier struct{}

func (noopNotifier) ShiftOpened(context.Context, model.ShiftRecord) error       { return nil }
func (noopNotifier) ShiftClosed(context.Context, model.ShiftRecord, bool) error { return nil }

type fixture struct {
	svc      *Service
	repo     *records.Repository
	tracker  *shift.Tracker
	platform *fakePlatform
	settings *memSettings
}

func newFixture(t *testing.T, settings model.Settings) *fixture {
	t.Helper()
	repo, err := records.Init(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	holder := &memSettings{s: settings}
	tracker := shift.NewTracker(repo, holder, noopNotifier{})
	platform := newFakePlatform()
	svc := NewService(repo, tracker, platform, holder, "guild")
	svc.now = func() time.Time { return clock }
	ids := 0
	svc.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	return &fixture{svc: svc, repo: repo, tracker: tracker, platform: platform, settings: holder}
}

func (f *fixture) register(t *testing.T, userID string, matricule int) {
	t.Helper()
	_, err := f.svc.RegisterAgent(context.Background(), RegisterInput{
		UserID: userID, Matricule: matricule, GameID: "game-" + userID, Salary: 1000,
	})
	require.NoError(t, err)
}

func validationField(t *testing.T, err error) string {
	t.Helper()
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Field
}

func TestRegisterAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{CaseFileCategoryID: "cat"})

	msg, err := f.svc.RegisterAgent(ctx, RegisterInput{UserID: "u1", Matricule: 7, GameID: " 1234 "})
	require.NoError(t, err)
	assert.Contains(t, msg, "matricule 07")

	agent, err := f.repo.GetAgent(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "1234", agent.GameID)
	assert.Equal(t, "chan-dossier-07", agent.CaseFileChannelID)

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.RegisterAgent(ctx, RegisterInput{UserID: "u2", Matricule: 0, GameID: "x"})
		assert.Equal(t, "matricule", validationField(t, err))
		_, err = f.svc.RegisterAgent(ctx, RegisterInput{UserID: "u2", Matricule: 100, GameID: "x"})
		assert.Equal(t, "matricule", validationField(t, err))
		_, err = f.svc.RegisterAgent(ctx, RegisterInput{UserID: "u2", Matricule: 5, GameID: "  "})
		assert.Equal(t, "game_id", validationField(t, err))
	})

	t.Run("duplicates", func(t *testing.T) {
		_, err := f.svc.RegisterAgent(ctx, RegisterInput{UserID: "u2", Matricule: 7, GameID: "x"})
		assert.ErrorIs(t, err, model.ErrDuplicateMatricule)
		assert.Equal(t, "❌ Ce matricule est déjà attribué.", UserMessage(err))
	})
}

func TestAgentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{ServiceChannelIDs: []string{"svc"}})
	f.register(t, "u1", 3)
	f.register(t, "u2", 1)

	list, err := f.svc.ListAgents(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "Effectif (2)")
	assert.Less(t, strings.Index(list, "<@u2>"), strings.Index(list, "<@u1>"))

	_, err = f.svc.AddEntry(ctx, "u1", model.EntryReward, "Intervention exemplaire", "boss")
	require.NoError(t, err)
	_, err = f.svc.AddEntry(ctx, "u1", model.EntrySanction, "  ", "boss")
	assert.Equal(t, "reason", validationField(t, err))
	_, err = f.svc.AddEntry(ctx, "ghost", model.EntrySanction, "x", "boss")
	assert.True(t, model.IsNotFound(err))

	info, err := f.svc.AgentInfo(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, info, "Récompenses : 1 · Sanctions : 0")
	assert.Contains(t, info, "Intervention exemplaire")

	_, err = f.tracker.HandleTransition(ctx, model.PresenceTransition{UserID: "u1", NewChannelID: "svc", At: clock})
	require.NoError(t, err)

	msg, err := f.svc.DeleteAgent(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, msg, "1 services")

	_, err = f.svc.AgentInfo(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrAgentNotFound)

	require.NoError(t, f.svc.MemberDeparted(ctx, model.MemberDeparted{GuildID: "guild", UserID: "u2"}))
	require.NoError(t, f.svc.MemberDeparted(ctx, model.MemberDeparted{GuildID: "guild", UserID: "stranger"}))
	list, err = f.svc.ListAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Aucun agent enregistré.", list)
}

func TestAddEntryPostsToCaseFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})
	_, err := f.svc.RegisterAgent(ctx, RegisterInput{UserID: "u1", Matricule: 4, GameID: "g", CaseFileChannelID: "file"})
	require.NoError(t, err)

	_, err = f.svc.AddEntry(ctx, "u1", model.EntrySanction, "Absence injustifiée", "boss")
	require.NoError(t, err)
	require.Len(t, f.platform.posts["file"], 1)
	assert.Contains(t, f.platform.posts["file"][0], "Sanction")
}

func TestAbsenceWorkflow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{AbsenceChannelID: "absences"})

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.SubmitAbsence(ctx, "u1", "01/04/2026", "2026-04-03", "x")
		assert.Equal(t, "start", validationField(t, err))
		_, err = f.svc.SubmitAbsence(ctx, "u1", "2026-04-05", "2026-04-03", "x")
		assert.Equal(t, "end", validationField(t, err))
		_, err = f.svc.SubmitAbsence(ctx, "u1", "2026-04-01", "2026-04-03", "")
		assert.Equal(t, "reason", validationField(t, err))
	})

	msg, err := f.svc.SubmitAbsence(ctx, "u1", "2026-04-01", "2026-04-01", "Rendez-vous médical")
	require.NoError(t, err)
	assert.Contains(t, msg, "id-1")
	require.Len(t, f.platform.posts["absences"], 1)

	pending, err := f.svc.ListAbsences(ctx, "pending")
	require.NoError(t, err)
	assert.Contains(t, pending, "en attente")

	_, err = f.svc.DecideAbsence(ctx, "id-1", true, "boss")
	require.NoError(t, err)
	require.Len(t, f.platform.dms["u1"], 1)
	assert.Contains(t, f.platform.dms["u1"][0], "acceptée")

	_, err = f.svc.DecideAbsence(ctx, "id-1", false, "boss")
	assert.ErrorIs(t, err, model.ErrAbsenceDecided)

	_, err = f.svc.DecideAbsence(ctx, "missing", false, "boss")
	assert.Equal(t, "❌ Demande d'absence introuvable.", UserMessage(err))

	_, err = f.svc.ListAbsences(ctx, "weird")
	assert.Equal(t, "status", validationField(t, err))

	t.Run("dm failure does not undo the decision", func(t *testing.T) {
		_, err := f.svc.SubmitAbsence(ctx, "u2", "2026-04-02", "2026-04-04", "Vacances")
		require.NoError(t, err)
		f.platform.dmErr = errors.New("dm closed")
		_, err = f.svc.DecideAbsence(ctx, "id-2", false, "boss")
		require.NoError(t, err)

		req, err := f.repo.GetAbsence(ctx, "id-2")
		require.NoError(t, err)
		assert.Equal(t, model.AbsenceRejected, req.Status)
	})
}

func TestWhitelistActions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	_, err := f.svc.AddWhitelistDomain(ctx, "WWW.Example.com")
	require.NoError(t, err)
	msg, err := f.svc.AddWhitelistDomain(ctx, "https://example.com/path")
	require.NoError(t, err)
	assert.Contains(t, msg, "déjà")

	_, err = f.svc.AddWhitelistDomain(ctx, "localhost")
	assert.Equal(t, "domain", validationField(t, err))

	_, err = f.svc.AddWhitelistChannel(ctx, "c1")
	require.NoError(t, err)

	list, err := f.svc.ListWhitelist(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "`example.com`")
	assert.Contains(t, list, "<#c1>")

	_, err = f.svc.RemoveWhitelistDomain(ctx, "example.com")
	require.NoError(t, err)
	_, err = f.svc.RemoveWhitelistDomain(ctx, "example.com")
	assert.Equal(t, "domain", validationField(t, err))
	_, err = f.svc.RemoveWhitelistChannel(ctx, "c1")
	require.NoError(t, err)
}

func TestSettingsActions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{})

	_, err := f.svc.SetAntiSpam(ctx, "500ms", 3)
	assert.Equal(t, "window", validationField(t, err))
	_, err = f.svc.SetAntiSpam(ctx, "2m", 0)
	assert.Equal(t, "threshold", validationField(t, err))
	_, err = f.svc.SetAntiSpam(ctx, "2m", 5)
	require.NoError(t, err)
	assert.Equal(t, model.AntiSpamConfig{Window: 2 * time.Minute, Threshold: 5}, f.settings.Settings().AntiSpam)

	_, err = f.svc.SetServiceChannels(ctx, []string{"a", "", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.settings.Settings().ServiceChannelIDs)

	_, err = f.svc.SetSalaryRank(ctx, "r1", "Sergent", 2000)
	require.NoError(t, err)
	_, err = f.svc.SetSalaryRank(ctx, "r2", "Caporal", 1500)
	require.NoError(t, err)
	_, err = f.svc.SetSalaryRank(ctx, "r1", "Sergent-chef", 2500)
	require.NoError(t, err)
	_, err = f.svc.SetHourlyRate(ctx, 50)
	require.NoError(t, err)

	salary := f.settings.Settings().Salary
	require.Len(t, salary.Ranks, 2)
	assert.Equal(t, "Sergent-chef", salary.Ranks[0].Name)
	assert.Equal(t, 50.0, salary.HourlyRate)

	_, err = f.svc.RemoveSalaryRank(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrRoleNotFound)
	_, err = f.svc.RemoveSalaryRank(ctx, "r2")
	require.NoError(t, err)

	// persisted values overlay the file settings on the next start
	restored, err := ApplyOverrides(ctx, f.repo, model.Settings{GatingRoleID: "staff"})
	require.NoError(t, err)
	assert.Equal(t, "staff", restored.GatingRoleID)
	assert.Equal(t, []string{"a", "b"}, restored.ServiceChannelIDs)
	assert.Equal(t, 5, restored.AntiSpam.Threshold)
	assert.Len(t, restored.Salary.Ranks, 1)
}

func TestShiftActions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, model.Settings{
		ServiceChannelIDs: []string{"svc"},
		Salary: model.SalaryConfig{
			HourlyRate: 100,
			Ranks:      []model.SalaryRank{{RoleID: "officer", Name: "Officier", Base: 3000}},
		},
	})
	f.register(t, "u1", 1)
	f.register(t, "u2", 2)
	f.platform.roles["u1"] = []string{"officer"}

	enter := func(user string, at time.Time) {
		_, err := f.tracker.HandleTransition(ctx, model.PresenceTransition{UserID: user, NewChannelID: "svc", At: at})
		require.NoError(t, err)
	}
	leave := func(user string, at time.Time) {
		_, err := f.tracker.HandleTransition(ctx, model.PresenceTransition{UserID: user, PreviousChannelID: "svc", At: at})
		require.NoError(t, err)
	}
	enter("u1", clock.Add(-3*time.Hour))
	leave("u1", clock.Add(-90*time.Minute))

	salary, err := f.svc.Salary(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, salary, "1h 30m")
	assert.Contains(t, salary, "Total : 3150 $")

	salary, err = f.svc.Salary(ctx, "u2")
	require.NoError(t, err)
	assert.Contains(t, salary, "Total : 1000 $")

	status, err := f.svc.ShiftStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, status, "Hors service")

	enter("u1", clock.Add(-10*time.Minute))
	enter("u2", clock.Add(-10*time.Minute))
	f.platform.voice = map[string]string{"u1": "svc"}
	msg, err := f.svc.PurgeShifts(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "<@u2>")
	assert.NotContains(t, msg, "<@u1>")

	_, err = f.svc.ResetShifts(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrAgentNotFound)
	msg, err = f.svc.ResetShifts(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, msg, "2 entrées")
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "❌ la raison est obligatoire", UserMessage(model.Invalid("reason", "la raison est obligatoire")))
	assert.Equal(t, "❌ Cet utilisateur n'est pas un agent enregistré.", UserMessage(fmt.Errorf("wrapped: %w", model.ErrAgentNotFound)))
	assert.Contains(t, UserMessage(errors.New("disk I/O error")), "erreur inattendue")
}

func TestSeedWhitelist(t *testing.T) {
	f := newFixture(t, model.Settings{})
	ctx := context.Background()

	added, err := f.svc.SeedWhitelist(ctx, []string{"https://www.YouTube.com/watch", "nodot", "twitch.tv"}, []string{"c1"})
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	wl, err := f.repo.Whitelist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"twitch.tv", "youtube.com"}, wl.Domains)
	assert.Equal(t, []string{"c1"}, wl.Channels)

	// a populated whitelist is never reseeded
	_, err = f.repo.RemoveDomain(ctx, "twitch.tv")
	require.NoError(t, err)
	added, err = f.svc.SeedWhitelist(ctx, []string{"twitch.tv"}, nil)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestRecentBans(t *testing.T) {
	f := newFixture(t, model.Settings{})
	ctx := context.Background()

	msg, err := f.svc.RecentBans(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Aucun bannissement automatique enregistré.", msg)

	_, err = f.repo.AddBan(ctx, model.BanRecord{GuildID: "guild", UserID: "u1", Reason: "spam", Violations: 10, Status: model.BanIssued, At: clock})
	require.NoError(t, err)
	_, err = f.repo.AddBan(ctx, model.BanRecord{GuildID: "guild", UserID: "u2", Reason: "spam", Violations: 11, Status: model.BanFailed, Error: "missing permissions", At: clock.Add(time.Minute)})
	require.NoError(t, err)
	_, err = f.repo.AddBan(ctx, model.BanRecord{GuildID: "other", UserID: "u3", Reason: "spam", Violations: 10, Status: model.BanIssued, At: clock})
	require.NoError(t, err)

	msg, err = f.svc.RecentBans(ctx, 5)
	require.NoError(t, err)
	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "<@u2>")
	assert.Contains(t, lines[0], "⚠️ échec")
	assert.Contains(t, lines[0], "`missing permissions`")
	assert.Contains(t, lines[1], "<@u1>")
	assert.NotContains(t, msg, "u3")
}

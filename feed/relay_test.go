package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"roster-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	existing map[string]bool
	added    []model.Listing
	ratings  []model.Rating
	games    []model.GameSummary
	limit    int
	err      error
}

func (f *fakeAPI) CheckExists(_ context.Context, title string) (bool, error) {
	return f.existing[title], f.err
}

func (f *fakeAPI) AutoAdd(_ context.Context, l model.Listing) (string, error) {
	f.added = append(f.added, l)
	return "1", f.err
}

func (f *fakeAPI) AddGame(context.Context, GameInput) (string, error) { return "9", f.err }
func (f *fakeAPI) DeleteGame(context.Context, int) error            { return f.err }

func (f *fakeAPI) ListGames(_ context.Context, limit int) ([]model.GameSummary, error) {
	f.limit = limit
	return f.games, f.err
}

func (f *fakeAPI) Rate(_ context.Context, r model.Rating) error {
	f.ratings = append(f.ratings, r)
	return f.err
}

func (f *fakeAPI) Stats(context.Context) (model.PlatformStats, error) {
	return model.PlatformStats{TotalGames: float64(3)}, f.err
}

type fakeSender struct {
	sent map[string][]*discordgo.MessageEmbed
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sent == nil {
		f.sent = map[string][]*discordgo.MessageEmbed{}
	}
	f.sent[channelID] = append(f.sent[channelID], embed)
	return &discordgo.Message{}, nil
}

func newTestRelay(api *fakeAPI) (*Relay, *fakeSender) {
	sender := &fakeSender{}
	r := NewRelay(api, sender, model.RelayConfig{SourceChannelID: "src", SourceBotID: "draftbot", NotifyChannelID: "notif"})
	r.now = func() time.Time { return parseNow }
	return r, sender
}

func draftMessage(content string) *discordgo.Message {
	return &discordgo.Message{ID: "m", ChannelID: "src", Author: &discordgo.User{ID: "draftbot"}, Content: content}
}

func TestRelayHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("new listing is added and announced", func(t *testing.T) {
		api := &fakeAPI{}
		r, sender := newTestRelay(api)
		res, err := r.HandleMessage(ctx, draftMessage("**Hades** sur Epic Games"))
		require.NoError(t, err)
		assert.Equal(t, RelayAdded, res)
		require.Len(t, api.added, 1)
		require.Len(t, sender.sent["notif"], 1)
		assert.Equal(t, "🆕 Hades", sender.sent["notif"][0].Title)
	})

	t.Run("existing listing is skipped", func(t *testing.T) {
		api := &fakeAPI{existing: map[string]bool{"Hades": true}}
		r, sender := newTestRelay(api)
		res, err := r.HandleMessage(ctx, draftMessage("**Hades** sur Epic Games"))
		require.NoError(t, err)
		assert.Equal(t, RelayDuplicate, res)
		assert.Empty(t, api.added)
		assert.Empty(t, sender.sent)
	})

	t.Run("other channels and authors are ignored", func(t *testing.T) {
		api := &fakeAPI{}
		r, _ := newTestRelay(api)
		msg := draftMessage("**Hades** sur Epic Games")
		msg.Author.ID = "someone"
		res, err := r.HandleMessage(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, RelaySkipped, res)

		msg = draftMessage("**Hades** sur Epic Games")
		msg.ChannelID = "elsewhere"
		res, err = r.HandleMessage(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, RelaySkipped, res)
	})

	t.Run("unparsable message", func(t *testing.T) {
		r, _ := newTestRelay(&fakeAPI{})
		res, err := r.HandleMessage(ctx, draftMessage("rien à voir"))
		require.NoError(t, err)
		assert.Equal(t, RelayUnparsed, res)
	})

	t.Run("api failure", func(t *testing.T) {
		r, _ := newTestRelay(&fakeAPI{err: errors.New("timeout")})
		_, err := r.HandleMessage(ctx, draftMessage("**Hades** sur Epic Games"))
		assert.Error(t, err)
	})
}

func TestRelayActions(t *testing.T) {
	ctx := context.Background()

	t.Run("rating bounds", func(t *testing.T) {
		api := &fakeAPI{}
		r, _ := newTestRelay(api)
		_, err := r.Rate(ctx, model.Rating{GameID: 1, Story: 0, Gameplay: 3, Graphics: 3, Soundtrack: 3})
		assert.Equal(t, "❌ Les notes doivent être entre 1 et 5.", ErrorMessage(err))
		assert.Empty(t, api.ratings)

		empty := "  "
		embed, err := r.Rate(ctx, model.Rating{GameID: 1, UserID: "u", Story: 5, Gameplay: 4, Graphics: 4, Soundtrack: 4, ReviewText: &empty})
		require.NoError(t, err)
		assert.Equal(t, "4.2/5", embed.Fields[4].Value)
		require.Len(t, api.ratings, 1)
		assert.Nil(t, api.ratings[0].ReviewText)
	})

	t.Run("list limit", func(t *testing.T) {
		api := &fakeAPI{games: []model.GameSummary{{ID: float64(7), Title: "Hades", Platform: "PC", AverageRating: "4.5"}}}
		r, _ := newTestRelay(api)

		embed, err := r.ListGames(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 10, api.limit)
		assert.Equal(t, "**#7** - Hades (PC) - ⭐ 4.5", embed.Description)

		_, err = r.ListGames(ctx, 50)
		require.NoError(t, err)
		assert.Equal(t, 20, api.limit)
	})

	t.Run("add game announces", func(t *testing.T) {
		r, sender := newTestRelay(&fakeAPI{})
		embed, err := r.AddGame(ctx, GameInput{Title: "Celeste", Platform: "PC", Genre: "Action", GameType: TypePermanent})
		require.NoError(t, err)
		assert.Equal(t, "#9", embed.Fields[1].Value)
		assert.Equal(t, "Gratuit permanent", embed.Fields[4].Value)
		assert.Len(t, sender.sent["notif"], 1)
	})

	t.Run("stats", func(t *testing.T) {
		r, _ := newTestRelay(&fakeAPI{})
		embed, err := r.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, "3", embed.Fields[0].Value)
		assert.Equal(t, "N/A", embed.Fields[4].Value)
	})
}

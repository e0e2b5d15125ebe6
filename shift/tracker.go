package shift

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"roster-bot/model"
	"roster-bot/utils"

	"github.com/samber/lo"
)

// Store is the shift ledger the tracker works on.
type Store interface {
	IsAgent(ctx context.Context, userID string) (bool, error)
	OpenShift(ctx context.Context, userID string, at time.Time) (model.ShiftRecord, error)
	CloseShift(ctx context.Context, userID string, at time.Time) (model.ShiftRecord, error)
	ListOpenShifts(ctx context.Context) ([]model.ShiftRecord, error)
	ListShifts(ctx context.Context, userID string) ([]model.ShiftRecord, error)
	DeleteShifts(ctx context.Context, userID string) (int64, error)
}

// Action is what HandleTransition did.
type Action int

const (
	// ActionIgnored: not an agent, missing the gating role, or no service boundary crossed.
	ActionIgnored Action = iota
	// ActionBusy: another transition of the same user was still in flight.
	ActionBusy
	ActionOpened
	ActionClosed
	// ActionUnchanged: the ledger already matched the transition.
	ActionUnchanged
)

type Result struct {
	Action Action
	Shift  model.ShiftRecord
}

// Tracker turns voice presence transitions into shift records.
type Tracker struct {
	store    Store
	settings model.SettingsProvider
	notifier Notifier
	// guard drops overlapping transitions of one user. ledger serializes
	// every write to one user's shifts, admin actions included.
	guard  *utils.KeyedMutex
	ledger *utils.KeyedMutex
	now    func() time.Time
}

func NewTracker(store Store, settings model.SettingsProvider, notifier Notifier) *Tracker {
	return &Tracker{
		store:    store,
		settings: settings,
		notifier: notifier,
		guard:    utils.NewKeyedMutex(),
		ledger:   utils.NewKeyedMutex(),
		now:      time.Now,
	}
}

// HandleTransition opens or closes the user's shift. A transition that
// arrives while another one of the same user is being handled is dropped.
// One that arrives during a purge or reset of that user waits for it.
func (t *Tracker) HandleTransition(ctx context.Context, ev model.PresenceTransition) (Result, error) {
	settings := t.settings.Settings()
	kind := Classify(ev.PreviousChannelID, ev.NewChannelID, settings.ServiceChannelIDs)
	if kind == NoChange {
		return Result{Action: ActionIgnored}, nil
	}
	if settings.GatingRoleID != "" && !lo.Contains(ev.Roles, settings.GatingRoleID) {
		return Result{Action: ActionIgnored}, nil
	}

	unlock, ok := t.guard.TryLock(ev.UserID)
	if !ok {
		return Result{Action: ActionBusy}, nil
	}
	defer unlock()
	release := t.ledger.Lock(ev.UserID)
	defer release()

	isAgent, err := t.store.IsAgent(ctx, ev.UserID)
	if err != nil {
		return Result{}, err
	}
	if !isAgent {
		return Result{Action: ActionIgnored}, nil
	}

	at := ev.At
	if at.IsZero() {
		at = t.now()
	}

	switch kind {
	case EnteredService:
		rec, err := t.store.OpenShift(ctx, ev.UserID, at)
		if errors.Is(err, model.ErrShiftAlreadyOpen) {
			return Result{Action: ActionUnchanged}, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("opening shift: %w", err)
		}
		if err := t.notifier.ShiftOpened(ctx, rec); err != nil {
			log.Printf("Failed to announce shift of %s: %v", ev.UserID, err)
		}
		return Result{Action: ActionOpened, Shift: rec}, nil

	case LeftService:
		rec, err := t.store.CloseShift(ctx, ev.UserID, at)
		if errors.Is(err, model.ErrNoOpenShift) {
			return Result{Action: ActionUnchanged}, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("closing shift: %w", err)
		}
		if err := t.notifier.ShiftClosed(ctx, rec, false); err != nil {
			log.Printf("Failed to announce end of shift of %s: %v", ev.UserID, err)
		}
		return Result{Action: ActionClosed, Shift: rec}, nil
	}
	return Result{Action: ActionIgnored}, nil
}

// Purge force-closes every open shift whose owner is not in a service channel
// right now. voiceChannels maps user ids to their current voice channel.
func (t *Tracker) Purge(ctx context.Context, voiceChannels map[string]string) ([]model.ShiftRecord, error) {
	service := t.settings.Settings().ServiceChannelIDs
	open, err := t.store.ListOpenShifts(ctx)
	if err != nil {
		return nil, err
	}

	var closed []model.ShiftRecord
	for _, rec := range open {
		if ch, ok := voiceChannels[rec.UserID]; ok && lo.Contains(service, ch) {
			continue
		}
		done, err := t.forceClose(ctx, rec.UserID)
		if err != nil {
			return closed, err
		}
		if done != nil {
			closed = append(closed, *done)
		}
	}
	return closed, nil
}

func (t *Tracker) forceClose(ctx context.Context, userID string) (*model.ShiftRecord, error) {
	release := t.ledger.Lock(userID)
	defer release()

	rec, err := t.store.CloseShift(ctx, userID, t.now())
	if errors.Is(err, model.ErrNoOpenShift) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("closing shift of %s: %w", userID, err)
	}
	if err := t.notifier.ShiftClosed(ctx, rec, true); err != nil {
		log.Printf("Failed to announce forced end of shift of %s: %v", userID, err)
	}
	return &rec, nil
}

// Reset deletes the shift history of one agent, or of every agent when
// userID is empty, and returns how many records were removed.
func (t *Tracker) Reset(ctx context.Context, userID string) (int64, error) {
	if userID != "" {
		release := t.ledger.Lock(userID)
		defer release()
	}
	return t.store.DeleteShifts(ctx, userID)
}

// Status summarizes an agent's ledger.
type Status struct {
	Open   *model.ShiftRecord
	Closed int
	Worked time.Duration
	// Elapsed is the running time of the open shift, if any.
	Elapsed time.Duration
}

func (t *Tracker) Status(ctx context.Context, userID string) (Status, error) {
	shifts, err := t.store.ListShifts(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	var st Status
	for _, rec := range shifts {
		if rec.Open() {
			open := rec
			st.Open = &open
			st.Elapsed = max(t.now().Sub(rec.StartedAt), 0)
			continue
		}
		st.Closed++
		st.Worked += rec.Duration()
	}
	return st, nil
}

// History returns every shift of an agent, oldest first.
func (t *Tracker) History(ctx context.Context, userID string) ([]model.ShiftRecord, error) {
	return t.store.ListShifts(ctx, userID)
}

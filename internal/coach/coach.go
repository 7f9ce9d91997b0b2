package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Coach runs the lifecycle for one user and writes every transition through
// to a Store. It is not safe for concurrent use: callers serving several
// requests for the same user must serialize access themselves.
//
// The in-memory state is authoritative as soon as a transition is applied.
// When the Store write that follows fails, the method returns a *PersistError
// but the transition stays applied.
type Coach struct {
	userID int
	store  Store
	state  State
	now    func() time.Time
	newID  func() string
}

// Option configures a Coach.
type Option func(*Coach)

// WithClock overrides time.Now for entry timestamps and cycle completion.
func WithClock(now func() time.Time) Option {
	return func(c *Coach) { c.now = now }
}

// WithIDGenerator overrides the entry id generator (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(c *Coach) { c.newID = fn }
}

// New returns a Coach for a user with no saved state, in Setup with profile p.
func New(userID int, store Store, p Profile, opts ...Option) *Coach {
	c := &Coach{
		userID: userID,
		store:  store,
		state:  NewState(p),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load restores a user's Coach from store, or starts a fresh one with the
// default profile when nothing has been saved yet.
func Load(ctx context.Context, userID int, store Store, opts ...Option) (*Coach, error) {
	c := New(userID, store, DefaultProfile(), opts...)
	snap, err := store.Load(ctx, userID)
	if errors.Is(err, ErrStateNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load coach state for user %d: %w", userID, err)
	}
	s, err := StateFromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("restore coach state for user %d: %w", userID, err)
	}
	c.state = s
	return c, nil
}

// UserID returns the id of the coached user.
func (c *Coach) UserID() int { return c.userID }

// State returns a copy of the current state.
func (c *Coach) State() State { return c.state }

// EditProfile applies fn to the profile while in Setup and saves the result.
func (c *Coach) EditProfile(ctx context.Context, fn func(Profile) Profile) (Profile, error) {
	s, err := EditProfile(c.state, fn)
	if err != nil {
		return c.state.Profile, err
	}
	c.state = s
	return s.Profile, c.save(ctx, "profile")
}

// PatchProfile validates and applies a partial profile edit while in Setup.
func (c *Coach) PatchProfile(ctx context.Context, pp ProfilePatch) (Profile, error) {
	if _, ok := c.state.Phase.(Setup); !ok {
		return c.state.Profile, ErrNotInSetup
	}
	p, err := pp.Apply(c.state.Profile)
	if err != nil {
		return c.state.Profile, err
	}
	return c.EditProfile(ctx, func(Profile) Profile { return p })
}

// Start begins a cycle. A validation failure leaves the Coach in Setup.
func (c *Coach) Start(ctx context.Context) (CycleStart, error) {
	s, cs, err := Start(c.state)
	if err != nil {
		return CycleStart{}, err
	}
	c.state = s
	return cs, c.save(ctx, "start")
}

// AddWeight logs a weight (kg) for the current week.
func (c *Coach) AddWeight(ctx context.Context, kg float64) (Entry, error) {
	return c.addEntry(ctx, WeightEntry, kg)
}

// AddCalories logs a daily intake (kcal) for the current week.
func (c *Coach) AddCalories(ctx context.Context, kcal float64) (Entry, error) {
	return c.addEntry(ctx, CalorieEntry, kcal)
}

func (c *Coach) addEntry(ctx context.Context, kind EntryKind, value float64) (Entry, error) {
	s, e, err := AddEntry(c.state, kind, c.newID(), value, c.now())
	if err != nil {
		return Entry{}, err
	}
	c.state = s
	if err := c.store.AppendEntry(ctx, c.userID, s.Cycle, kind, e); err != nil {
		return e, &PersistError{Op: "append " + string(kind) + " entry", Err: err}
	}
	return e, nil
}

// RemoveEntry deletes an entry of the current week.
func (c *Coach) RemoveEntry(ctx context.Context, kind EntryKind, id string) error {
	s, err := RemoveEntry(c.state, kind, id)
	if err != nil {
		return err
	}
	c.state = s
	if err := c.store.DeleteEntry(ctx, c.userID, kind, id); err != nil {
		return &PersistError{Op: "delete " + string(kind) + " entry", Err: err}
	}
	return nil
}

// CompleteWeek finalizes the current week. It fails with ErrNoWeightEntry,
// leaving the state unchanged, when no weight was logged this week.
func (c *Coach) CompleteWeek(ctx context.Context) (WeekOutcome, error) {
	s, out, err := CompleteWeek(c.state)
	if err != nil {
		return WeekOutcome{}, err
	}
	c.state = s
	return out, c.save(ctx, "complete week")
}

// CompleteCycle archives the running cycle and returns to Setup. Both the
// archive append and the document save are attempted even if one fails.
func (c *Coach) CompleteCycle(ctx context.Context) (CycleRecord, error) {
	s, rec, err := CompleteCycle(c.state, c.now())
	if err != nil {
		return CycleRecord{}, err
	}
	c.state = s
	var errs []error
	if err := c.store.AppendCycle(ctx, c.userID, rec); err != nil {
		errs = append(errs, &PersistError{Op: "append cycle", Err: err})
	}
	if err := c.save(ctx, "complete cycle"); err != nil {
		errs = append(errs, err)
	}
	return rec, errors.Join(errs...)
}

// Cycles returns the archive of completed cycles, oldest first.
func (c *Coach) Cycles(ctx context.Context) ([]CycleRecord, error) {
	cycles, err := c.store.ListCycles(ctx, c.userID)
	if err != nil {
		return nil, fmt.Errorf("list cycles for user %d: %w", c.userID, err)
	}
	return cycles, nil
}

func (c *Coach) save(ctx context.Context, op string) error {
	if err := c.store.Save(ctx, c.userID, c.state.Document()); err != nil {
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

package coach

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)

func started(t *testing.T, p Profile) State {
	t.Helper()
	s, _, err := Start(NewState(p))
	require.NoError(t, err)
	return s
}

func logWeek(t *testing.T, s State, weights []float64, kcal []float64) State {
	t.Helper()
	var err error
	for i, w := range weights {
		s, _, err = AddEntry(s, WeightEntry, fmt.Sprintf("w%d", i), w, day0)
		require.NoError(t, err)
	}
	for i, c := range kcal {
		s, _, err = AddEntry(s, CalorieEntry, fmt.Sprintf("c%d", i), c, day0)
		require.NoError(t, err)
	}
	return s
}

/* ─── Start ──────────────────────────────────────────────────────────── */

func TestStart_EstimatesTDEE(t *testing.T) {
	s, cs, err := Start(NewState(DefaultProfile()))
	require.NoError(t, err)

	assert.Equal(t, 3275, cs.TDEE)
	assert.Equal(t, 3275, s.TDEE)
	assert.Equal(t, 2780, cs.Recommendation.Calories)
	assert.Equal(t, CalorieHistoryRecord{Week: 0, Calories: 2780, TDEE: 3275}, cs.History)

	tr, ok := s.Tracking()
	require.True(t, ok)
	assert.Equal(t, 1, tr.CurrentWeek)
	assert.Empty(t, tr.WeeklyAverages)
	assert.Equal(t, []CalorieHistoryRecord{cs.History}, tr.CalorieHistory)
}

func TestStart_UsesLearnedTDEE(t *testing.T) {
	s := NewState(DefaultProfile())
	s.TDEE = 2600
	s, cs, err := Start(s)
	require.NoError(t, err)
	assert.Equal(t, 2600, cs.TDEE)
	assert.Equal(t, 2600, s.TDEE)
	assert.Equal(t, 2105, cs.Recommendation.Calories)
}

func TestStart_InvalidGoalLeavesSetup(t *testing.T) {
	before := NewState(DefaultProfile().WithTargetWeight(95))
	after, _, err := Start(before)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target_weight", verr.Field)
	assert.Equal(t, before, after)
	assert.Equal(t, StepSetup, after.Phase.Step())
}

func TestStart_AlreadyTracking(t *testing.T) {
	s := started(t, DefaultProfile())
	_, _, err := Start(s)
	assert.ErrorIs(t, err, ErrNotInSetup)
}

/* ─── Profile edits ──────────────────────────────────────────────────── */

func TestEditProfile(t *testing.T) {
	s, err := EditProfile(NewState(DefaultProfile()), func(p Profile) Profile { return p.WithAge(41) })
	require.NoError(t, err)
	assert.Equal(t, 41, s.Profile.Age)

	tracking := started(t, DefaultProfile())
	after, err := EditProfile(tracking, func(p Profile) Profile { return p.WithAge(41) })
	assert.ErrorIs(t, err, ErrNotInSetup)
	assert.Equal(t, 30, after.Profile.Age)
}

/* ─── Entries ────────────────────────────────────────────────────────── */

func TestAddEntry_RequiresTracking(t *testing.T) {
	_, _, err := AddEntry(NewState(DefaultProfile()), WeightEntry, "x", 90, day0)
	assert.ErrorIs(t, err, ErrNotTracking)
}

func TestAddEntry_UnknownKind(t *testing.T) {
	s := started(t, DefaultProfile())
	_, _, err := AddEntry(s, EntryKind("steps"), "x", 9000, day0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAddEntry_AssignsWeekAndDay(t *testing.T) {
	s := started(t, DefaultProfile())
	s, e1, err := AddEntry(s, WeightEntry, "a", 90, day0)
	require.NoError(t, err)
	s, e2, err := AddEntry(s, WeightEntry, "b", 89.8, day0.Add(24*time.Hour))
	require.NoError(t, err)
	s, c1, err := AddEntry(s, CalorieEntry, "c", 2100, day0)
	require.NoError(t, err)

	assert.Equal(t, 1, e1.Week)
	assert.Equal(t, 1, e1.Day)
	assert.Equal(t, 2, e2.Day)
	assert.Equal(t, 1, c1.Day, "days are counted per collection")
	assert.Equal(t, day0, e1.Timestamp)

	// Removing an entry does not reuse its day.
	s, err = RemoveEntry(s, WeightEntry, "a")
	require.NoError(t, err)
	_, e3, err := AddEntry(s, WeightEntry, "d", 89.5, day0)
	require.NoError(t, err)
	assert.Equal(t, 3, e3.Day)
}

func TestAddEntry_DoesNotMutateInput(t *testing.T) {
	s := started(t, DefaultProfile())
	next, _, err := AddEntry(s, WeightEntry, "a", 90, day0)
	require.NoError(t, err)

	before, _ := s.Tracking()
	after, _ := next.Tracking()
	assert.Equal(t, 0, before.Weights.Len())
	assert.Equal(t, 1, after.Weights.Len())
}

func TestRemoveEntry(t *testing.T) {
	s := started(t, DefaultProfile())
	s = logWeek(t, s, []float64{90, 89}, nil)

	s, err := RemoveEntry(s, WeightEntry, "w0")
	require.NoError(t, err)
	tr, _ := s.Tracking()
	avg, ok := tr.Weights.Average(1)
	require.True(t, ok)
	assert.Equal(t, 89.0, avg)

	_, err = RemoveEntry(s, WeightEntry, "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = RemoveEntry(s, CalorieEntry, "w1")
	assert.ErrorIs(t, err, ErrEntryNotFound, "id belongs to the other collection")
}

func TestRemoveEntry_CompletedWeekIsFrozen(t *testing.T) {
	s := started(t, DefaultProfile())
	s = logWeek(t, s, []float64{90}, nil)
	s, _, err := CompleteWeek(s)
	require.NoError(t, err)

	_, err = RemoveEntry(s, WeightEntry, "w0")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

/* ─── Weekly completion ──────────────────────────────────────────────── */

func TestCompleteWeek_NoWeight(t *testing.T) {
	s := started(t, DefaultProfile())
	s = logWeek(t, s, nil, []float64{2000})

	after, _, err := CompleteWeek(s)
	assert.ErrorIs(t, err, ErrNoWeightEntry)
	assert.Equal(t, s, after)
}

func TestCompleteWeek_NotTracking(t *testing.T) {
	_, _, err := CompleteWeek(NewState(DefaultProfile()))
	assert.ErrorIs(t, err, ErrNotTracking)
}

func TestCompleteWeek_RoundsAverages(t *testing.T) {
	s := started(t, DefaultProfile())
	s = logWeek(t, s, []float64{90.04, 90.0}, []float64{2000, 2001})

	s, out, err := CompleteWeek(s)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Average.Week)
	assert.Equal(t, 90.0, out.Average.AvgWeight)
	require.NotNil(t, out.Average.AvgCalories)
	assert.Equal(t, 2001.0, *out.Average.AvgCalories)

	tr, _ := s.Tracking()
	assert.Equal(t, 2, tr.CurrentWeek)
	assert.Len(t, tr.WeeklyAverages, 1)
	assert.Len(t, tr.CalorieHistory, 2)
	assert.Equal(t, out.History, tr.CalorieHistory[1])
}

func TestCompleteWeek_UntrackedCalories(t *testing.T) {
	s := started(t, DefaultProfile())
	s = logWeek(t, s, []float64{90}, nil)

	_, out, err := CompleteWeek(s)
	require.NoError(t, err)
	assert.Nil(t, out.Average.AvgCalories)
	assert.Nil(t, out.History.AvgCalories)
}

// Three tracked weeks trigger the first recalibration. The week being
// completed has no history record yet, so only weeks 1 and 2 count towards
// intake and the drop is clamped to 300 kcal.
func TestCompleteWeek_ThreeWeekScenario(t *testing.T) {
	p := DefaultProfile()
	s := started(t, p)

	var out WeekOutcome
	var err error
	for i, w := range []float64{90, 89, 88} {
		s = logWeek(t, s, []float64{w}, []float64{2000})
		s, out, err = CompleteWeek(s)
		require.NoError(t, err)
		if i < 2 {
			assert.False(t, out.Recalibrated, "week %d", i+1)
			assert.Equal(t, 3275, out.TDEE)
			assert.Equal(t, 2780, out.Recommendation.Calories)
		}
	}

	assert.True(t, out.Recalibrated)
	assert.Equal(t, 3275, out.PreviousTDEE)
	assert.Equal(t, 2975, out.TDEE)
	assert.Equal(t, Recommend(2975, p, 88), out.Recommendation)
	assert.Equal(t, 2491, out.Recommendation.Calories)

	tr, _ := s.Tracking()
	assert.Equal(t, 4, tr.CurrentWeek)
	assert.Equal(t, 2975, s.TDEE)
	assert.Equal(t, out.Recommendation, tr.Recommendation)
	assert.Equal(t, CalorieHistoryRecord{Week: 3, Calories: 2491, TDEE: 2975, AvgCalories: ptr(2000.0)}, tr.CalorieHistory[3])
}

// Every history record carries the TDEE that was active once its week closed.
func TestCompleteWeek_HistoryTracksTDEE(t *testing.T) {
	s := started(t, DefaultProfile())
	var err error
	for _, w := range []float64{90, 89.5, 89, 88.6, 88.1} {
		s = logWeek(t, s, []float64{w}, []float64{2600})
		s, _, err = CompleteWeek(s)
		require.NoError(t, err)
	}
	tr, _ := s.Tracking()
	last := tr.CalorieHistory[len(tr.CalorieHistory)-1]
	assert.Equal(t, s.TDEE, last.TDEE)
	assert.Equal(t, tr.Recommendation.Calories, last.Calories)
	for i, h := range tr.CalorieHistory {
		assert.Equal(t, i, h.Week)
	}
}

/* ─── Cycle completion ───────────────────────────────────────────────── */

func TestCompleteCycle(t *testing.T) {
	p := DefaultProfile()
	s := started(t, p)
	var err error
	for _, w := range []float64{90, 89, 88} {
		s = logWeek(t, s, []float64{w}, []float64{2000})
		s, _, err = CompleteWeek(s)
		require.NoError(t, err)
	}

	done := day0.AddDate(0, 0, 21)
	s, rec, err := CompleteCycle(s, done)
	require.NoError(t, err)

	assert.Equal(t, CycleRecord{
		CompletedAt:  done,
		FinalTDEE:    2975,
		FinalWeight:  88,
		TotalWeeks:   3,
		StartWeight:  90,
		TargetWeight: 80,
		Goal:         Lose,
	}, rec)
	assert.Equal(t, StepSetup, s.Phase.Step())
	assert.Equal(t, 1, s.Cycle)
	assert.Equal(t, 88.0, s.Profile.CurrentWeight)
	assert.Equal(t, 2975, s.TDEE)

	// The next cycle starts from the learned TDEE, not a fresh estimate.
	s, cs, err := Start(s)
	require.NoError(t, err)
	assert.Equal(t, 2975, cs.TDEE)
	assert.Equal(t, Recommend(2975, s.Profile, 88), cs.Recommendation)
	tr, _ := s.Tracking()
	assert.Equal(t, 0, tr.Weights.Len(), "entries do not carry over")
}

func TestCompleteCycle_WithoutCompletedWeeks(t *testing.T) {
	s := started(t, DefaultProfile())
	s = logWeek(t, s, []float64{85}, nil)

	s, rec, err := CompleteCycle(s, day0)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.TotalWeeks)
	assert.Equal(t, 90.0, rec.FinalWeight)
	assert.Equal(t, 90.0, s.Profile.CurrentWeight)
}

func TestCompleteCycle_NotTracking(t *testing.T) {
	_, _, err := CompleteCycle(NewState(DefaultProfile()), day0)
	assert.True(t, errors.Is(err, ErrNotTracking))
}

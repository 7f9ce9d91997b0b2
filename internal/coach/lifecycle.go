package coach

import (
	"math"
	"slices"
	"time"
)

// CycleStart is the opening plan of a cycle.
type CycleStart struct {
	TDEE           int
	Recommendation Recommendation
	History        CalorieHistoryRecord
}

// StartCycle validates the goal and computes the first recommendation. A
// non-zero knownTDEE, learned in an earlier cycle, takes precedence over a
// fresh estimate.
func StartCycle(p Profile, knownTDEE int) (CycleStart, error) {
	if check := ValidateGoal(p.Goal, p.CurrentWeight, p.TargetWeight); !check.Valid {
		return CycleStart{}, &ValidationError{Field: "target_weight", Message: check.Message}
	}

	tdee := knownTDEE
	if tdee == 0 {
		tdee = EstimateInitialTDEE(p)
	}
	rec := Recommend(tdee, p, p.CurrentWeight)
	return CycleStart{
		TDEE:           tdee,
		Recommendation: rec,
		History:        CalorieHistoryRecord{Week: 0, Calories: rec.Calories, TDEE: tdee},
	}, nil
}

// EditProfile applies fn to the profile. Only allowed in Setup.
func EditProfile(s State, fn func(Profile) Profile) (State, error) {
	if _, ok := s.Phase.(Setup); !ok {
		return s, ErrNotInSetup
	}
	s.Profile = fn(s.Profile)
	return s, nil
}

// Start moves a Setup state into week 1 of Tracking.
func Start(s State) (State, CycleStart, error) {
	if _, ok := s.Phase.(Setup); !ok {
		return s, CycleStart{}, ErrNotInSetup
	}
	cs, err := StartCycle(s.Profile, s.TDEE)
	if err != nil {
		return s, CycleStart{}, err
	}
	s.TDEE = cs.TDEE
	s.Phase = Tracking{
		CurrentWeek:    1,
		Recommendation: cs.Recommendation,
		WeeklyAverages: []WeeklyAverage{},
		CalorieHistory: []CalorieHistoryRecord{cs.History},
	}
	return s, cs, nil
}

// AddEntry logs value in the current week. The returned entry carries the
// assigned week and day.
func AddEntry(s State, kind EntryKind, id string, value float64, at time.Time) (State, Entry, error) {
	if !kind.Valid() {
		return s, Entry{}, &ValidationError{Field: "kind", Message: "unknown entry kind " + string(kind)}
	}
	t, ok := s.Tracking()
	if !ok {
		return s, Entry{}, ErrNotTracking
	}
	l := t.log(kind)
	e := Entry{
		ID:        id,
		Week:      t.CurrentWeek,
		Day:       l.nextDay(t.CurrentWeek),
		Value:     value,
		Timestamp: at,
	}
	s.Phase = t.withLog(kind, l.with(e))
	return s, e, nil
}

// RemoveEntry deletes an entry of the current week. Entries of completed
// weeks cannot be removed.
func RemoveEntry(s State, kind EntryKind, id string) (State, error) {
	if !kind.Valid() {
		return s, &ValidationError{Field: "kind", Message: "unknown entry kind " + string(kind)}
	}
	t, ok := s.Tracking()
	if !ok {
		return s, ErrNotTracking
	}
	l, found := t.log(kind).without(t.CurrentWeek, id)
	if !found {
		return s, ErrEntryNotFound
	}
	s.Phase = t.withLog(kind, l)
	return s, nil
}

// WeekOutcome describes what completing a week produced.
type WeekOutcome struct {
	Average        WeeklyAverage        `json:"average"`
	History        CalorieHistoryRecord `json:"history"`
	PreviousTDEE   int                  `json:"previous_tdee"`
	TDEE           int                  `json:"tdee"`
	Recommendation Recommendation       `json:"recommendation"`
	Recalibrated   bool                 `json:"recalibrated"`
}

// CompleteWeek finalizes the current week: it averages the week's entries,
// lets the feedback controller revise the TDEE, records the week in the
// calorie history and advances to the next week. The history record for the
// completed week is appended after recalibration, so that week's intake is
// not yet part of the controller's intake window.
func CompleteWeek(s State) (State, WeekOutcome, error) {
	t, ok := s.Tracking()
	if !ok {
		return s, WeekOutcome{}, ErrNotTracking
	}
	avgWeight, ok := t.Weights.Average(t.CurrentWeek)
	if !ok {
		return s, WeekOutcome{}, ErrNoWeightEntry
	}

	avg := WeeklyAverage{Week: t.CurrentWeek, AvgWeight: roundTo(avgWeight, 1)}
	if c, ok := t.Calories.Average(t.CurrentWeek); ok {
		v := math.Round(c)
		avg.AvgCalories = &v
	}
	averages := append(slices.Clip(t.WeeklyAverages), avg)

	tdee := RecalibrateTDEE(averages, t.CalorieHistory, s.TDEE, t.Recommendation)
	rec := t.Recommendation
	if tdee != s.TDEE {
		rec = Recommend(tdee, s.Profile, avg.AvgWeight)
	}
	record := CalorieHistoryRecord{
		Week:        t.CurrentWeek,
		Calories:    rec.Calories,
		TDEE:        tdee,
		AvgCalories: avg.AvgCalories,
	}

	out := WeekOutcome{
		Average:        avg,
		History:        record,
		PreviousTDEE:   s.TDEE,
		TDEE:           tdee,
		Recommendation: rec,
		Recalibrated:   tdee != s.TDEE,
	}

	t.WeeklyAverages = averages
	t.CalorieHistory = append(slices.Clip(t.CalorieHistory), record)
	t.Recommendation = rec
	t.CurrentWeek++
	s.TDEE = tdee
	s.Phase = t
	return s, out, nil
}

// CompleteCycle archives the running cycle and returns to Setup. The learned
// TDEE is kept and the profile's current weight becomes the last weekly
// average, or stays as it was when no week was completed.
func CompleteCycle(s State, now time.Time) (State, CycleRecord, error) {
	t, ok := s.Tracking()
	if !ok {
		return s, CycleRecord{}, ErrNotTracking
	}
	finalWeight := s.Profile.CurrentWeight
	if n := len(t.WeeklyAverages); n > 0 {
		finalWeight = t.WeeklyAverages[n-1].AvgWeight
	}
	rec := CycleRecord{
		CompletedAt:  now,
		FinalTDEE:    s.TDEE,
		FinalWeight:  finalWeight,
		TotalWeeks:   t.CurrentWeek - 1,
		StartWeight:  s.Profile.CurrentWeight,
		TargetWeight: s.Profile.TargetWeight,
		Goal:         s.Profile.Goal,
	}
	s.Profile = s.Profile.WithCurrentWeight(finalWeight)
	s.Cycle++
	s.Phase = Setup{}
	return s, rec, nil
}

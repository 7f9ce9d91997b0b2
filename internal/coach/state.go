package coach

import (
	"fmt"
	"slices"
	"time"
)

// WeeklyAverage is the finalized outcome of one tracked week. AvgCalories is
// nil when no calories were logged that week.
type WeeklyAverage struct {
	Week        int      `json:"week"`
	AvgWeight   float64  `json:"avg_weight"`
	AvgCalories *float64 `json:"avg_calories"`
}

// CalorieHistoryRecord records the target and estimate that were active for a
// week. Week 0 is written at Setup.
type CalorieHistoryRecord struct {
	Week        int      `json:"week"`
	Calories    int      `json:"calories"`
	TDEE        int      `json:"tdee"`
	AvgCalories *float64 `json:"avg_calories"`
}

// CycleRecord archives the outcome of a completed cycle.
type CycleRecord struct {
	CompletedAt  time.Time `json:"completed_at"`
	FinalTDEE    int       `json:"final_tdee"`
	FinalWeight  float64   `json:"final_weight"`
	TotalWeeks   int       `json:"total_weeks"`
	StartWeight  float64   `json:"start_weight"`
	TargetWeight float64   `json:"target_weight"`
	Goal         Goal      `json:"goal"`
}

// Step is the persisted name of a Phase.
type Step string

const (
	StepSetup    Step = "setup"
	StepTracking Step = "tracking"
)

// Phase is the lifecycle phase. Only Setup and Tracking implement it, and a
// type switch over those two is exhaustive.
type Phase interface {
	Step() Step
	phase()
}

// Setup is the phase in which the profile is edited and a cycle not yet started.
type Setup struct{}

func (Setup) Step() Step { return StepSetup }
func (Setup) phase()     {}

// Tracking is the phase of a running cycle. All per-cycle data lives here, so
// leaving the phase discards it.
type Tracking struct {
	CurrentWeek    int
	Recommendation Recommendation
	WeeklyAverages []WeeklyAverage
	CalorieHistory []CalorieHistoryRecord
	Weights        EntryLog
	Calories       EntryLog
}

func (Tracking) Step() Step { return StepTracking }
func (Tracking) phase()     {}

func (t Tracking) log(kind EntryKind) EntryLog {
	if kind == WeightEntry {
		return t.Weights
	}
	return t.Calories
}

func (t Tracking) withLog(kind EntryKind, l EntryLog) Tracking {
	if kind == WeightEntry {
		t.Weights = l
	} else {
		t.Calories = l
	}
	return t
}

// State is everything the lifecycle owns for one user. TDEE survives cycle
// completion; Cycle counts completed cycles and scopes stored entries.
type State struct {
	Profile Profile
	TDEE    int
	Cycle   int
	Phase   Phase
}

// NewState returns a state in Setup with no learned TDEE.
func NewState(p Profile) State {
	return State{Profile: p, Phase: Setup{}}
}

// Tracking returns the tracking phase, if the state is in it.
func (s State) Tracking() (Tracking, bool) {
	t, ok := s.Phase.(Tracking)
	return t, ok
}

// Document is the persisted shape of a State, without entries.
type Document struct {
	Profile        Profile                `json:"profile"`
	Step           Step                   `json:"step"`
	Cycle          int                    `json:"cycle"`
	CurrentWeek    int                    `json:"current_week"`
	TDEE           int                    `json:"tdee"`
	Recommendation *Recommendation        `json:"recommendation"`
	WeeklyAverages []WeeklyAverage        `json:"weekly_averages"`
	CalorieHistory []CalorieHistoryRecord `json:"calorie_history"`
}

// Snapshot is a Document plus the current cycle's entries, as a Store loads it.
type Snapshot struct {
	Document
	Weights  []Entry `json:"weight_entries"`
	Calories []Entry `json:"calorie_entries"`
}

// Document returns the persisted form of s.
func (s State) Document() Document {
	doc := Document{
		Profile:        s.Profile,
		Cycle:          s.Cycle,
		TDEE:           s.TDEE,
		CurrentWeek:    1,
		WeeklyAverages: []WeeklyAverage{},
		CalorieHistory: []CalorieHistoryRecord{},
	}
	switch p := s.Phase.(type) {
	case Setup:
		doc.Step = StepSetup
	case Tracking:
		doc.Step = StepTracking
		doc.CurrentWeek = p.CurrentWeek
		rec := p.Recommendation
		doc.Recommendation = &rec
		doc.WeeklyAverages = append(doc.WeeklyAverages, p.WeeklyAverages...)
		doc.CalorieHistory = append(doc.CalorieHistory, p.CalorieHistory...)
	}
	return doc
}

// Snapshot returns the persisted form of s including entries.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{Document: s.Document(), Weights: []Entry{}, Calories: []Entry{}}
	if t, ok := s.Tracking(); ok {
		snap.Weights = t.Weights.All()
		snap.Calories = t.Calories.All()
	}
	return snap
}

// StateFromSnapshot rebuilds a State. A tracking snapshot must carry a
// recommendation; a setup snapshot's per-cycle fields are ignored.
func StateFromSnapshot(snap Snapshot) (State, error) {
	s := State{Profile: snap.Profile, TDEE: snap.TDEE, Cycle: snap.Cycle}
	switch snap.Step {
	case StepSetup, "":
		s.Phase = Setup{}
	case StepTracking:
		if snap.Recommendation == nil {
			return State{}, fmt.Errorf("tracking state without recommendation")
		}
		if snap.CurrentWeek < 1 {
			return State{}, fmt.Errorf("tracking state with current week %d", snap.CurrentWeek)
		}
		s.Phase = Tracking{
			CurrentWeek:    snap.CurrentWeek,
			Recommendation: *snap.Recommendation,
			WeeklyAverages: slices.Clone(snap.WeeklyAverages),
			CalorieHistory: slices.Clone(snap.CalorieHistory),
			Weights:        NewEntryLog(snap.Weights),
			Calories:       NewEntryLog(snap.Calories),
		}
	default:
		return State{}, fmt.Errorf("unknown step %q", snap.Step)
	}
	return s, nil
}

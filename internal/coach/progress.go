package coach

import "math"

// WeekSummary is the live readout of the week being tracked.
type WeekSummary struct {
	Week        int      `json:"week"`
	Weights     []Entry  `json:"weights"`
	Calories    []Entry  `json:"calories"`
	AvgWeight   *float64 `json:"avg_weight"`
	AvgCalories *float64 `json:"avg_calories"`
}

// CurrentWeek summarizes the entries logged so far in the current week.
// ok is false outside Tracking.
func (s State) CurrentWeek() (WeekSummary, bool) {
	t, ok := s.Tracking()
	if !ok {
		return WeekSummary{}, false
	}
	sum := WeekSummary{
		Week:     t.CurrentWeek,
		Weights:  nonNil(t.Weights.Week(t.CurrentWeek)),
		Calories: nonNil(t.Calories.Week(t.CurrentWeek)),
	}
	if v, ok := t.Weights.Average(t.CurrentWeek); ok {
		sum.AvgWeight = &v
	}
	if v, ok := t.Calories.Average(t.CurrentWeek); ok {
		sum.AvgCalories = &v
	}
	return sum, true
}

// Progress is how far the running cycle has come.
type Progress struct {
	Step              Step            `json:"step"`
	StartWeight       float64         `json:"start_weight"`
	CurrentWeight     float64         `json:"current_weight"`
	TargetWeight      float64         `json:"target_weight"`
	Change            float64         `json:"change"`
	RemainingToTarget float64         `json:"remaining_to_target"`
	WeeksCompleted    int             `json:"weeks_completed"`
	TDEE              int             `json:"tdee"`
	Recommendation    *Recommendation `json:"recommendation"`
}

// Progress reports the cycle's progress. The current weight is the last
// weekly average, falling back to the profile weight before the first week
// is completed. Weight differences are rounded to 0.1 kg.
func (s State) Progress() Progress {
	p := Progress{
		Step:          s.Phase.Step(),
		StartWeight:   s.Profile.CurrentWeight,
		CurrentWeight: s.Profile.CurrentWeight,
		TargetWeight:  s.Profile.TargetWeight,
		TDEE:          s.TDEE,
	}
	if t, ok := s.Tracking(); ok {
		if n := len(t.WeeklyAverages); n > 0 {
			p.CurrentWeight = t.WeeklyAverages[n-1].AvgWeight
		}
		p.WeeksCompleted = len(t.WeeklyAverages)
		rec := t.Recommendation
		p.Recommendation = &rec
	}
	p.Change = roundTo(p.CurrentWeight-p.StartWeight, 1)
	p.RemainingToTarget = roundTo(math.Abs(p.TargetWeight-p.CurrentWeight), 1)
	return p
}

func nonNil(es []Entry) []Entry {
	if es == nil {
		return []Entry{}
	}
	return es
}

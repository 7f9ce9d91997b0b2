package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

/* ─── Initial estimate ───────────────────────────────────────────────── */

func TestEstimateInitialTDEE(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		want    int
	}{
		{"default male moderate", DefaultProfile(), 3275},
		{"female light", DefaultProfile().WithGender(Female).WithCurrentWeight(70).WithActivityFactor(1.375), 2276},
		{"male sedentary", DefaultProfile().WithCurrentWeight(100).WithActivityFactor(1.2), 2844},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EstimateInitialTDEE(tc.profile))
		})
	}
}

// The estimate grows with weight and with the activity factor.
func TestEstimateInitialTDEE_Monotonic(t *testing.T) {
	base := DefaultProfile()
	prev := 0
	for _, w := range []float64{50, 60, 75, 90, 120} {
		got := EstimateInitialTDEE(base.WithCurrentWeight(w))
		assert.Greater(t, got, prev, "weight %v", w)
		prev = got
	}
	prev = 0
	for _, f := range []float64{1.2, 1.375, 1.5, 1.725, 1.9} {
		got := EstimateInitialTDEE(base.WithActivityFactor(f))
		assert.Greater(t, got, prev, "factor %v", f)
		prev = got
	}
	male := EstimateInitialTDEE(base)
	female := EstimateInitialTDEE(base.WithGender(Female))
	assert.Greater(t, male, female)
}

/* ─── Recalibration ──────────────────────────────────────────────────── */

func averages(weights ...float64) []WeeklyAverage {
	out := make([]WeeklyAverage, len(weights))
	for i, w := range weights {
		out[i] = WeeklyAverage{Week: i + 1, AvgWeight: w}
	}
	return out
}

func trackedHistory(weeks int, kcal float64) []CalorieHistoryRecord {
	out := []CalorieHistoryRecord{{Week: 0, Calories: 2000, TDEE: 2500}}
	for w := 1; w <= weeks; w++ {
		out = append(out, CalorieHistoryRecord{Week: w, Calories: 2000, TDEE: 2500, AvgCalories: ptr(kcal)})
	}
	return out
}

func TestRecalibrateTDEE_NeedsThreeWeeks(t *testing.T) {
	active := Recommendation{Calories: 2000}
	assert.Equal(t, 2500, RecalibrateTDEE(nil, nil, 2500, active))
	assert.Equal(t, 2500, RecalibrateTDEE(averages(90), trackedHistory(1, 1500), 2500, active))
	assert.Equal(t, 2500, RecalibrateTDEE(averages(90, 88), trackedHistory(2, 1500), 2500, active))
}

func TestRecalibrateTDEE(t *testing.T) {
	active := Recommendation{Calories: 2000}
	cases := []struct {
		name    string
		avgs    []WeeklyAverage
		history []CalorieHistoryRecord
		tdee    int
		want    int
	}{
		{"adopted within step", averages(90, 89, 88), trackedHistory(3, 2000), 2500, 2733},
		{"clamped upward", averages(90, 87, 84), trackedHistory(3, 1500), 2500, 2800},
		{"clamped downward", averages(80, 81, 82), trackedHistory(3, 1500), 2500, 2200},
		{"stable weight matches intake", averages(85, 85, 85), trackedHistory(3, 2400), 2500, 2400},
		{"untracked falls back to active target", averages(90, 90, 90), trackedHistory(0, 0), 2100, 2000},
		{"only last three averages", averages(100, 90, 89, 88), trackedHistory(4, 2000), 2500, 2733},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecalibrateTDEE(tc.avgs, tc.history, tc.tdee, active))
		})
	}
}

// Weeks outside the window never contribute intake.
func TestRecalibrateTDEE_IgnoresHistoryOutsideWindow(t *testing.T) {
	avgs := []WeeklyAverage{{Week: 4, AvgWeight: 85}, {Week: 5, AvgWeight: 85}, {Week: 6, AvgWeight: 85}}
	history := []CalorieHistoryRecord{
		{Week: 2, AvgCalories: ptr(9000.0)},
		{Week: 4, AvgCalories: ptr(2100.0)},
		{Week: 5, AvgCalories: ptr(2100.0)},
		{Week: 6, AvgCalories: ptr(2100.0)},
	}
	assert.Equal(t, 2100, RecalibrateTDEE(avgs, history, 2000, Recommendation{Calories: 1500}))
}

// A single recalibration never moves the estimate by more than 300 kcal.
func TestRecalibrateTDEE_StepBound(t *testing.T) {
	for _, drop := range []float64{-6, -3, -1, 0, 1, 3, 6} {
		for _, kcal := range []float64{1200, 2000, 3500} {
			got := RecalibrateTDEE(averages(90, 90+drop/2, 90+drop), trackedHistory(3, kcal), 2500, Recommendation{Calories: 2000})
			assert.LessOrEqual(t, got, 2800)
			assert.GreaterOrEqual(t, got, 2200)
		}
	}
}

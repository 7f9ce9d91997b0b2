package coach

import "math"

const (
	// kcalPerKg is the energy equivalent of one kilogram of body-mass change.
	kcalPerKg = 7700.0

	// recalibrationWindowDays is the span the last three weekly averages are
	// assumed to cover. Gaps in tracked week numbers are not accounted for.
	recalibrationWindowDays = 21

	// recalibrationWeeks is how many weekly averages the controller looks at,
	// and the minimum number that must exist before it revises anything.
	recalibrationWeeks = 3

	// maxTDEEStep caps how far a single recalibration may move the estimate.
	maxTDEEStep = 300
)

// EstimateInitialTDEE computes the starting expenditure estimate from a lean
// body mass proxy: lbm = weight * 0.85 (male) or 0.75 (female),
// bmr = 500 + 22*lbm, tdee = round(bmr * activity factor).
//
// Weight must be positive and the activity factor one of ActivityLevels;
// other inputs are not checked here.
func EstimateInitialTDEE(p Profile) int {
	leanFraction := 0.75
	if p.Gender == Male {
		leanFraction = 0.85
	}
	lbm := p.CurrentWeight * leanFraction
	bmr := 500 + 22*lbm
	return roundInt(bmr * p.ActivityFactor)
}

// RecalibrateTDEE revises the expenditure estimate from the last three weekly
// averages. It returns tdee unchanged when fewer than three exist.
//
// Observed intake is the mean of the tracked weekly calorie averages in the
// window spread over 21 days; when no week in the window was tracked, the
// active recommendation's calorie target stands in. The body-mass change over
// the window is converted to a daily energy balance and added to the intake.
// The result is adopted exactly unless it moves the estimate by more than
// maxTDEEStep, in which case the step is clamped.
func RecalibrateTDEE(averages []WeeklyAverage, history []CalorieHistoryRecord, tdee int, active Recommendation) int {
	if len(averages) < recalibrationWeeks {
		return tdee
	}

	window := averages[len(averages)-recalibrationWeeks:]
	oldest, newest := window[0], window[len(window)-1]

	avgDailyCalories := float64(active.Calories)
	tracked := false
	var total float64
	for _, h := range history {
		if h.Week < oldest.Week || h.Week > newest.Week || h.AvgCalories == nil {
			continue
		}
		tracked = true
		total += *h.AvgCalories * 7
	}
	if tracked {
		avgDailyCalories = total / recalibrationWindowDays
	}

	energyFromBodyChange := (oldest.AvgWeight - newest.AvgWeight) * kcalPerKg / recalibrationWindowDays
	estimated := roundInt(avgDailyCalories + energyFromBodyChange)

	delta := estimated - tdee
	switch {
	case delta > maxTDEEStep:
		return tdee + maxTDEEStep
	case delta < -maxTDEEStep:
		return tdee - maxTDEEStep
	}
	return estimated
}

func roundInt(x float64) int {
	return int(math.Round(x))
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

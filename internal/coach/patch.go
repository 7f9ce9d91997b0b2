package coach

import (
	"fmt"
	"slices"
	"strings"
)

// Input bounds applied by ProfilePatch and ValidateEntry. The calculators
// themselves accept anything; these keep obviously wrong input out of a state.
const (
	minAge, maxAge           = 10, 120
	minHeightCM, maxHeightCM = 100.0, 250.0
	minWeightKg, maxWeightKg = 20.0, 500.0
	maxWeeklyGoalPercent     = 2.0
	maxDailyCalories         = 20000.0
)

// ProfilePatch is a partial profile edit. Nil fields are left unchanged.
// ActivityLevel names an entry of ActivityLevels and wins over ActivityFactor
// when both are set.
type ProfilePatch struct {
	Age               *int     `json:"age"`
	Gender            *Gender  `json:"gender"`
	HeightCM          *float64 `json:"height_cm"`
	CurrentWeight     *float64 `json:"current_weight"`
	TargetWeight      *float64 `json:"target_weight"`
	ActivityLevel     *string  `json:"activity_level"`
	ActivityFactor    *float64 `json:"activity_factor"`
	Goal              *Goal    `json:"goal"`
	WeeklyGoalPercent *float64 `json:"weekly_goal_percent"`
}

// Empty reports whether the patch changes nothing.
func (pp ProfilePatch) Empty() bool {
	return pp == ProfilePatch{}
}

// Validate checks every set field against its bounds.
func (pp ProfilePatch) Validate() error {
	if pp.Age != nil && (*pp.Age < minAge || *pp.Age > maxAge) {
		return &ValidationError{Field: "age", Message: fmt.Sprintf("must be between %d and %d", minAge, maxAge)}
	}
	if pp.Gender != nil && *pp.Gender != Male && *pp.Gender != Female {
		return &ValidationError{Field: "gender", Message: "must be male or female"}
	}
	if pp.HeightCM != nil && (*pp.HeightCM < minHeightCM || *pp.HeightCM > maxHeightCM) {
		return &ValidationError{Field: "height_cm", Message: fmt.Sprintf("must be between %g and %g", minHeightCM, maxHeightCM)}
	}
	if pp.CurrentWeight != nil && !validWeight(*pp.CurrentWeight) {
		return &ValidationError{Field: "current_weight", Message: weightRange()}
	}
	if pp.TargetWeight != nil && !validWeight(*pp.TargetWeight) {
		return &ValidationError{Field: "target_weight", Message: weightRange()}
	}
	if pp.ActivityLevel != nil {
		if _, ok := ActivityLevels[*pp.ActivityLevel]; !ok {
			return &ValidationError{Field: "activity_level", Message: "must be one of: " + activityLevelNames()}
		}
	}
	if pp.ActivityFactor != nil && !ValidActivityFactor(*pp.ActivityFactor) {
		return &ValidationError{Field: "activity_factor", Message: "must be one of the activity level factors"}
	}
	if pp.Goal != nil && !pp.Goal.Valid() {
		return &ValidationError{Field: "goal", Message: "must be lose, maintain or gain"}
	}
	if pp.WeeklyGoalPercent != nil && (*pp.WeeklyGoalPercent < 0 || *pp.WeeklyGoalPercent > maxWeeklyGoalPercent) {
		return &ValidationError{Field: "weekly_goal_percent", Message: fmt.Sprintf("must be between 0 and %g", maxWeeklyGoalPercent)}
	}
	return nil
}

// Apply validates the patch and returns p with the set fields applied. The
// goal is applied before the weekly percentage so that a patch switching to
// Maintain always ends with a zero percentage.
func (pp ProfilePatch) Apply(p Profile) (Profile, error) {
	if err := pp.Validate(); err != nil {
		return p, err
	}
	if pp.Age != nil {
		p = p.WithAge(*pp.Age)
	}
	if pp.Gender != nil {
		p = p.WithGender(*pp.Gender)
	}
	if pp.HeightCM != nil {
		p = p.WithHeight(*pp.HeightCM)
	}
	if pp.CurrentWeight != nil {
		p = p.WithCurrentWeight(*pp.CurrentWeight)
	}
	if pp.TargetWeight != nil {
		p = p.WithTargetWeight(*pp.TargetWeight)
	}
	if pp.ActivityFactor != nil {
		p = p.WithActivityFactor(*pp.ActivityFactor)
	}
	if pp.ActivityLevel != nil {
		p = p.WithActivityFactor(ActivityLevels[*pp.ActivityLevel])
	}
	if pp.Goal != nil {
		p = p.WithGoal(*pp.Goal)
	}
	if pp.WeeklyGoalPercent != nil {
		p = p.WithWeeklyGoalPercent(*pp.WeeklyGoalPercent)
	}
	return p, nil
}

// ValidateEntry checks a logged value: a body weight in kg or a daily intake
// in kcal.
func ValidateEntry(kind EntryKind, value float64) error {
	switch kind {
	case WeightEntry:
		if !validWeight(value) {
			return &ValidationError{Field: "weight", Message: weightRange()}
		}
	case CalorieEntry:
		if value < 0 || value > maxDailyCalories {
			return &ValidationError{Field: "calories", Message: fmt.Sprintf("must be between 0 and %g", maxDailyCalories)}
		}
	default:
		return &ValidationError{Field: "kind", Message: "unknown entry kind " + string(kind)}
	}
	return nil
}

// ActivityLevelName returns the name of factor in ActivityLevels, or "" when
// it is not one of them.
func ActivityLevelName(factor float64) string {
	for name, f := range ActivityLevels {
		if f == factor {
			return name
		}
	}
	return ""
}

func validWeight(kg float64) bool {
	return kg >= minWeightKg && kg <= maxWeightKg
}

func weightRange() string {
	return fmt.Sprintf("must be between %g and %g kg", minWeightKg, maxWeightKg)
}

func activityLevelNames() string {
	names := make([]string, 0, len(ActivityLevels))
	for name := range ActivityLevels {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return int((ActivityLevels[a] - ActivityLevels[b]) * 1000)
	})
	return strings.Join(names, ", ")
}

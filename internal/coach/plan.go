package coach

const (
	minCalorieTarget = 1200
	maxCalorieTarget = 5000
)

// Macros is a daily gram allocation. MinFat is the height-derived fat floor
// the allocation was computed against.
type Macros struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
	MinFat  int `json:"min_fat"`
}

// Recommendation is the daily target handed to the user: a calorie target,
// its macro split and the expenditure estimate it was derived from.
type Recommendation struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
	MinFat   int `json:"min_fat"`
	TDEE     int `json:"tdee"`
}

// CalorieTarget converts an expenditure estimate into a daily calorie target.
// The weekly goal is a percentage of current body weight; its energy
// equivalent is spread over seven days and subtracted (lose) or added (gain).
// Maintain ignores the percentage. The result is always clamped to
// [1200, 5000] kcal.
func CalorieTarget(tdee int, goal Goal, weeklyGoalPercent, currentWeight float64) int {
	weeklyGoalKg := weeklyGoalPercent / 100 * currentWeight
	dailyAdjustment := weeklyGoalKg * kcalPerKg / 7

	target := tdee
	switch goal {
	case Lose:
		target = roundInt(float64(tdee) - dailyAdjustment)
	case Gain:
		target = roundInt(float64(tdee) + dailyAdjustment)
	}
	return max(minCalorieTarget, min(maxCalorieTarget, target))
}

// ComputeMacros splits a calorie target into protein, fat and carbs.
//
// Protein is set per kg of body weight and fat is 27.5% of calories but never
// below the height-based floor; carbs take what is left and never go
// negative. Protein and fat do not depend on each other, so when the fat
// floor binds or protein is large the macros' energy can fall short of the
// target. That shortfall is accepted and not redistributed.
func ComputeMacros(calories int, weight, height float64, goal Goal) Macros {
	proteinPerKg := 2.0
	switch goal {
	case Lose:
		proteinPerKg = 2.2
	case Gain:
		proteinPerKg = 1.8
	}
	protein := roundInt(weight * proteinPerKg)

	minFat := 30
	if height >= 150 {
		minFat = roundInt((height-150)*0.5 + 30)
	}
	targetFat := roundInt(float64(calories) * 0.275 / 9)
	fat := max(minFat, targetFat)

	carbs := max(0, roundInt(float64(calories-protein*4-fat*9)/4))

	return Macros{Protein: protein, Fat: fat, Carbs: carbs, MinFat: minFat}
}

// Recommend derives a full recommendation for tdee, using weight as the
// current body weight for both the calorie target and the protein allocation.
func Recommend(tdee int, p Profile, weight float64) Recommendation {
	calories := CalorieTarget(tdee, p.Goal, p.WeeklyGoalPercent, weight)
	m := ComputeMacros(calories, weight, p.HeightCM, p.Goal)
	return Recommendation{
		Calories: calories,
		Protein:  m.Protein,
		Fat:      m.Fat,
		Carbs:    m.Carbs,
		MinFat:   m.MinFat,
		TDEE:     tdee,
	}
}

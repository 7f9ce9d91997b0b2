package coach

// Gender selects the lean-mass fraction used by the metabolic estimator.
// Only two values are modeled; the formula set has no other coefficients.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Goal is the direction of the body-weight change a cycle aims for.
type Goal string

const (
	Lose     Goal = "lose"
	Maintain Goal = "maintain"
	Gain     Goal = "gain"
)

// Valid reports whether g is one of the three known goals.
func (g Goal) Valid() bool {
	return g == Lose || g == Maintain || g == Gain
}

// ActivityLevels maps activity level names to their TDEE multiplier. This is
// the single source of truth for valid activity factors; shells use it to
// validate input before it reaches a Profile.
var ActivityLevels = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.5,
	"active":      1.725,
	"very_active": 1.9,
}

// ValidActivityFactor reports whether f is one of the multipliers in ActivityLevels.
func ValidActivityFactor(f float64) bool {
	for _, v := range ActivityLevels {
		if v == f {
			return true
		}
	}
	return false
}

// Profile holds the body metrics and goal of the coached user. It is a value:
// the With* methods return an updated copy and never modify the receiver.
type Profile struct {
	Age               int     `json:"age"`
	Gender            Gender  `json:"gender"`
	HeightCM          float64 `json:"height_cm"`
	CurrentWeight     float64 `json:"current_weight"`
	TargetWeight      float64 `json:"target_weight"`
	ActivityFactor    float64 `json:"activity_factor"`
	Goal              Goal    `json:"goal"`
	WeeklyGoalPercent float64 `json:"weekly_goal_percent"`
}

// DefaultProfile is the profile a brand new user starts Setup with.
func DefaultProfile() Profile {
	return Profile{
		Age:               30,
		Gender:            Male,
		HeightCM:          180,
		CurrentWeight:     90,
		TargetWeight:      80,
		ActivityFactor:    1.5,
		Goal:              Lose,
		WeeklyGoalPercent: 0.5,
	}
}

func (p Profile) WithAge(age int) Profile {
	p.Age = age
	return p
}

func (p Profile) WithGender(g Gender) Profile {
	p.Gender = g
	return p
}

func (p Profile) WithHeight(cm float64) Profile {
	p.HeightCM = cm
	return p
}

func (p Profile) WithCurrentWeight(kg float64) Profile {
	p.CurrentWeight = kg
	return p
}

func (p Profile) WithTargetWeight(kg float64) Profile {
	p.TargetWeight = kg
	return p
}

func (p Profile) WithActivityFactor(f float64) Profile {
	p.ActivityFactor = f
	return p
}

// WithGoal sets the goal. Switching to Maintain zeroes the weekly goal
// percentage, which has no meaning without a direction.
func (p Profile) WithGoal(g Goal) Profile {
	p.Goal = g
	if g == Maintain {
		p.WeeklyGoalPercent = 0
	}
	return p
}

// WithWeeklyGoalPercent sets the weekly rate of change. It is ignored while
// the goal is Maintain.
func (p Profile) WithWeeklyGoalPercent(pct float64) Profile {
	if p.Goal == Maintain {
		return p
	}
	p.WeeklyGoalPercent = pct
	return p
}

// GoalCheck is the result of ValidateGoal. Message is empty when Valid.
type GoalCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ValidateGoal checks that the target weight lies in the direction of the goal.
// Maintain accepts any target.
func ValidateGoal(goal Goal, currentWeight, targetWeight float64) GoalCheck {
	if goal == Lose && currentWeight <= targetWeight {
		return GoalCheck{Valid: false, Message: "target weight must be lower than current weight to lose weight"}
	}
	if goal == Gain && currentWeight >= targetWeight {
		return GoalCheck{Valid: false, Message: "target weight must be higher than current weight to gain weight"}
	}
	return GoalCheck{Valid: true}
}

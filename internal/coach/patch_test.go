package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePatch_Apply(t *testing.T) {
	level := "active"
	patch := ProfilePatch{
		Age:           ptr(41),
		Gender:        ptr(Female),
		CurrentWeight: ptr(72.5),
		TargetWeight:  ptr(65.0),
		ActivityLevel: &level,
	}
	p, err := patch.Apply(DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, 41, p.Age)
	assert.Equal(t, Female, p.Gender)
	assert.Equal(t, 72.5, p.CurrentWeight)
	assert.Equal(t, 65.0, p.TargetWeight)
	assert.Equal(t, 1.725, p.ActivityFactor)
	assert.Equal(t, 180.0, p.HeightCM, "unset fields are kept")
}

func TestProfilePatch_MaintainZeroesPercent(t *testing.T) {
	p, err := ProfilePatch{Goal: ptr(Maintain), WeeklyGoalPercent: ptr(1.0)}.Apply(DefaultProfile())
	require.NoError(t, err)
	assert.Equal(t, Maintain, p.Goal)
	assert.Equal(t, 0.0, p.WeeklyGoalPercent)
}

func TestProfilePatch_Invalid(t *testing.T) {
	bogus := "couch"
	cases := []struct {
		name  string
		patch ProfilePatch
		field string
	}{
		{"age", ProfilePatch{Age: ptr(5)}, "age"},
		{"gender", ProfilePatch{Gender: ptr(Gender("other"))}, "gender"},
		{"height", ProfilePatch{HeightCM: ptr(300.0)}, "height_cm"},
		{"current weight", ProfilePatch{CurrentWeight: ptr(0.0)}, "current_weight"},
		{"target weight", ProfilePatch{TargetWeight: ptr(-4.0)}, "target_weight"},
		{"activity level", ProfilePatch{ActivityLevel: &bogus}, "activity_level"},
		{"activity factor", ProfilePatch{ActivityFactor: ptr(1.6)}, "activity_factor"},
		{"goal", ProfilePatch{Goal: ptr(Goal("bulk"))}, "goal"},
		{"weekly percent", ProfilePatch{WeeklyGoalPercent: ptr(3.0)}, "weekly_goal_percent"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := DefaultProfile()
			after, err := tc.patch.Apply(before)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, before, after)
		})
	}
}

func TestProfilePatch_Empty(t *testing.T) {
	assert.True(t, ProfilePatch{}.Empty())
	assert.False(t, ProfilePatch{Age: ptr(30)}.Empty())
}

func TestValidateEntry(t *testing.T) {
	assert.NoError(t, ValidateEntry(WeightEntry, 82.3))
	assert.Error(t, ValidateEntry(WeightEntry, 0))
	assert.Error(t, ValidateEntry(WeightEntry, 600))
	assert.NoError(t, ValidateEntry(CalorieEntry, 0))
	assert.NoError(t, ValidateEntry(CalorieEntry, 2450))
	assert.Error(t, ValidateEntry(CalorieEntry, -1))
	assert.Error(t, ValidateEntry(EntryKind("steps"), 1))
}

func TestActivityLevelName(t *testing.T) {
	assert.Equal(t, "moderate", ActivityLevelName(1.5))
	assert.Equal(t, "", ActivityLevelName(1.6))
}

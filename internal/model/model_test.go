package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCaloriesBurned(t *testing.T) {
	tests := []struct {
		name         string
		exerciseType string
		duration     float64
		weight       float64
		want         int
	}{
		{"running 30 min at 80kg", "running", 30, 80, 480},
		{"cycling", "cycling", 60, 70, 546},
		{"swimming", "swimming", 20, 60, 300},
		{"walking", "walking", 45, 90, 324},
		{"unknown type uses default", "yoga", 30, 80, 240},
		{"missing weight falls back to 70", "running", 10, 0, 140},
		{"rounds to nearest", "cycling", 1, 70, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CaloriesBurned(tt.exerciseType, tt.duration, tt.weight))
		})
	}
}

func TestExerciseEntry_Recalculate(t *testing.T) {
	entry := &ExerciseEntry{ExerciseType: "running", Duration: 30, CaloriesBurned: 9999}
	entry.Recalculate(80)
	assert.Equal(t, 480, entry.CaloriesBurned)
}

func TestGoal_EvaluateCompletion(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want bool
	}{
		{"below target", Goal{Type: GoalExercise, TargetValue: ptr(10.0), CurrentValue: 5}, false},
		{"at target", Goal{Type: GoalExercise, TargetValue: ptr(10.0), CurrentValue: 10}, true},
		{"above target", Goal{Type: GoalDiet, TargetValue: ptr(10.0), CurrentValue: 12}, true},
		{"drops below target again", Goal{Type: GoalWeight, TargetValue: ptr(10.0), CurrentValue: 3, Completed: true}, false},
		{"custom keeps manual flag", Goal{Type: GoalCustom, CurrentValue: 0, Completed: true}, true},
		{"custom never auto completes", Goal{Type: GoalCustom, TargetValue: ptr(1.0), CurrentValue: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.goal
			g.EvaluateCompletion()
			assert.Equal(t, tt.want, g.Completed)
		})
	}
}

func TestGoal_HooksRecompute(t *testing.T) {
	g := &Goal{Type: GoalExercise, TargetValue: ptr(5.0), CurrentValue: 5}
	require.NoError(t, g.BeforeSave(nil))
	assert.True(t, g.Completed)

	g.CurrentValue = 1
	require.NoError(t, g.AfterFind(nil))
	assert.False(t, g.Completed)
}

func TestSummarize(t *testing.T) {
	entries := []DietEntry{
		{MealType: MealBreakfast, Calories: 300},
		{MealType: MealLunch, Calories: 500},
	}

	summary := Summarize(entries)

	assert.Equal(t, 800.0, summary.TotalCalories)
	assert.Equal(t, 2, summary.EntryCount)
	assert.Equal(t, MealTotals{Count: 1, Calories: 300}, summary.MealSummary[MealBreakfast])
	assert.Equal(t, MealTotals{Count: 1, Calories: 500}, summary.MealSummary[MealLunch])
	assert.Equal(t, MealTotals{}, summary.MealSummary[MealDinner])
	assert.Equal(t, MealTotals{}, summary.MealSummary[MealSnack])
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	day := time.Date(2024, 3, 10, 15, 30, 0, 0, loc)

	start, end := DayBounds(day, loc)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999000000, loc), end)
}

func TestUser_CalculateBMI(t *testing.T) {
	u := &User{}
	assert.Nil(t, u.CalculateBMI())

	u.PhysicalDetails.Height = ptr(200.0)
	u.PhysicalDetails.Weight = ptr(80.0)
	bmi := u.CalculateBMI()
	require.NotNil(t, bmi)
	assert.InDelta(t, 20.0, *bmi, 0.0001)
	assert.Equal(t, 80.0, u.CurrentWeight(DefaultBodyWeight))
}

func TestEnums(t *testing.T) {
	assert.True(t, MealSnack.Valid())
	assert.False(t, MealType("brunch").Valid())
	assert.True(t, GoalCustom.Valid())
	assert.False(t, GoalType("sleep").Valid())
	assert.True(t, GenderOther.Valid())
	assert.False(t, Gender("x").Valid())
}

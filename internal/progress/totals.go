package progress

import "math"

const (
	DefaultDailyCalorieGoal  = 2200
	DefaultWeeklyWorkoutGoal = 4
)

// Goals are owned by the user profile, the engine only reads them.
type Goals struct {
	DailyCalorieGoal  float64 `json:"dailyCalorieGoal"`
	WeeklyWorkoutGoal int     `json:"weeklyWorkoutGoal"`
}

func DefaultGoals() Goals {
	return Goals{
		DailyCalorieGoal:  DefaultDailyCalorieGoal,
		WeeklyWorkoutGoal: DefaultWeeklyWorkoutGoal,
	}
}

type GoalProvider interface {
	Goals() Goals
}

type Totals struct {
	CompletedCalories  float64 `json:"completedCalories"`
	Percent            int     `json:"percent"`
	CompletedExercises int     `json:"completedExercises"`
	CompletedWorkouts  int     `json:"completedWorkouts"`
}

// ComputeTotals derives the aggregates from the plan and a state snapshot.
// Percent and completed workouts are rounded independently, so 100% does
// not imply that every weekly workout slot is filled.
func ComputeTotals(plan *Plan, state State, goals Goals) Totals {
	var totals Totals
	for _, entry := range plan.entries {
		doneSets := min(state[entry.ID].CompletedSets, entry.Sets)
		if doneSets < 0 {
			doneSets = 0
		}
		totals.CompletedCalories += float64(doneSets) * entry.PerSetCalories
		if doneSets >= entry.Sets {
			totals.CompletedExercises++
		}
	}

	percent := math.Round(totals.CompletedCalories / goals.DailyCalorieGoal * 100)
	totals.Percent = min(100, finiteNonNegative(percent))

	caloriesPerWorkout := goals.DailyCalorieGoal / float64(goals.WeeklyWorkoutGoal)
	workouts := math.Floor(totals.CompletedCalories / caloriesPerWorkout)
	totals.CompletedWorkouts = min(max(goals.WeeklyWorkoutGoal, 0), finiteNonNegative(workouts))

	return totals
}

func finiteNonNegative(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

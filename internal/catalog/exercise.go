package catalog

const (
	CategoryStrength = "Strength"
	CategoryCardio   = "Cardio"
	CategoryMobility = "Mobility"
	CategoryHIIT     = "HIIT"
)

type Exercise struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationSeconds int    `json:"durationSeconds"`
	Difficulty      string `json:"difficulty"`
	TargetSets      int    `json:"targetSets"`
	// TargetReps is 0 for timed exercises without a rep count
	TargetReps   int    `json:"targetReps"`
	CaloriesHint int    `json:"caloriesHint"`
	Icon         string `json:"icon"`
}

// Default returns the built-in exercise list, 4 exercises per category.
func Default() []Exercise {
	return []Exercise{
		{ID: "e1", Name: "Push Ups", Category: CategoryStrength, DurationSeconds: 45, Difficulty: "Easy", TargetSets: 3, TargetReps: 12, CaloriesHint: 8, Icon: "fitness-center"},
		{ID: "e2", Name: "Squats", Category: CategoryStrength, DurationSeconds: 60, Difficulty: "Medium", TargetSets: 3, TargetReps: 15, CaloriesHint: 10, Icon: "directions-run"},
		{ID: "e3", Name: "Bicep Curls", Category: CategoryStrength, DurationSeconds: 45, Difficulty: "Easy", TargetSets: 3, TargetReps: 12, CaloriesHint: 6, Icon: "sports-handball"},
		{ID: "e4", Name: "Lunges", Category: CategoryStrength, DurationSeconds: 50, Difficulty: "Medium", TargetSets: 3, TargetReps: 12, CaloriesHint: 9, Icon: "directions-walk"},

		{ID: "e5", Name: "Burpees", Category: CategoryCardio, DurationSeconds: 40, Difficulty: "Hard", TargetSets: 3, TargetReps: 10, CaloriesHint: 12, Icon: "whatshot"},
		{ID: "e6", Name: "Jumping Jacks", Category: CategoryCardio, DurationSeconds: 30, Difficulty: "Easy", TargetSets: 3, TargetReps: 30, CaloriesHint: 5, Icon: "accessibility"},
		{ID: "e7", Name: "High Knees", Category: CategoryCardio, DurationSeconds: 45, Difficulty: "Medium", TargetSets: 3, TargetReps: 20, CaloriesHint: 9, Icon: "trending-up"},
		{ID: "e8", Name: "Mountain Climbers", Category: CategoryCardio, DurationSeconds: 40, Difficulty: "Hard", TargetSets: 3, TargetReps: 20, CaloriesHint: 11, Icon: "terrain"},

		{ID: "e9", Name: "Hip Circles", Category: CategoryMobility, DurationSeconds: 60, Difficulty: "Easy", TargetSets: 2, CaloriesHint: 2, Icon: "self_improvement"},
		{ID: "e10", Name: "Cat-Cow", Category: CategoryMobility, DurationSeconds: 90, Difficulty: "Easy", TargetSets: 2, CaloriesHint: 1, Icon: "spa"},
		{ID: "e11", Name: "Shoulder Rolls", Category: CategoryMobility, DurationSeconds: 45, Difficulty: "Easy", TargetSets: 2, CaloriesHint: 1, Icon: "cycle"},
		{ID: "e12", Name: "Hamstring Stretch", Category: CategoryMobility, DurationSeconds: 60, Difficulty: "Easy", TargetSets: 2, CaloriesHint: 1, Icon: "air"},

		{ID: "e13", Name: "Jump Squats", Category: CategoryHIIT, DurationSeconds: 30, Difficulty: "Hard", TargetSets: 4, TargetReps: 12, CaloriesHint: 14, Icon: "fitness-center"},
		{ID: "e14", Name: "Sprint Intervals", Category: CategoryHIIT, DurationSeconds: 20, Difficulty: "Hard", TargetSets: 6, CaloriesHint: 15, Icon: "directions-run"},
		{ID: "e15", Name: "Skaters", Category: CategoryHIIT, DurationSeconds: 35, Difficulty: "Medium", TargetSets: 4, CaloriesHint: 10, Icon: "swipe"},
		{ID: "e16", Name: "Plank Jacks", Category: CategoryHIIT, DurationSeconds: 30, Difficulty: "Medium", TargetSets: 4, CaloriesHint: 9, Icon: "fitness-center"},
	}
}

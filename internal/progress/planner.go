package progress

import (
	"math"

	"github.com/2beens/fitprogress/internal/catalog"
)

// DefaultCategoryBudgets sum up to the default daily calorie goal.
func DefaultCategoryBudgets() map[string]float64 {
	return map[string]float64{
		catalog.CategoryStrength: 800,
		catalog.CategoryCardio:   600,
		catalog.CategoryMobility: 300,
		catalog.CategoryHIIT:     500,
	}
}

type PlanEntry struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	Sets                int     `json:"sets"`
	CategoryCalories    float64 `json:"categoryCalories"`
	PerExerciseCalories float64 `json:"perExerciseCalories"`
	PerSetCalories      float64 `json:"perSetCalories"`
}

// Plan is the per exercise calorie allocation. It is immutable once built.
type Plan struct {
	entries []PlanEntry
	byID    map[string]int
}

// BuildPlan splits every category budget evenly between the exercises of
// that category. A category without a budget gets 0 calories.
func BuildPlan(exercises []catalog.Exercise, budgets map[string]float64) *Plan {
	countInCategory := make(map[string]int)
	for _, e := range exercises {
		countInCategory[e.Category]++
	}

	plan := &Plan{
		entries: make([]PlanEntry, 0, len(exercises)),
		byID:    make(map[string]int, len(exercises)),
	}
	for _, e := range exercises {
		budget := budgets[e.Category]
		perExercise := math.Round(budget / float64(countInCategory[e.Category]))

		sets := e.TargetSets
		if sets <= 0 {
			sets = 1
		}

		plan.byID[e.ID] = len(plan.entries)
		plan.entries = append(plan.entries, PlanEntry{
			ID:                  e.ID,
			Name:                e.Name,
			Category:            e.Category,
			Sets:                sets,
			CategoryCalories:    budget,
			PerExerciseCalories: perExercise,
			PerSetCalories:      perExercise / float64(sets),
		})
	}

	return plan
}

// Entries returns a copy of the plan entries in catalog order.
func (p *Plan) Entries() []PlanEntry {
	entries := make([]PlanEntry, len(p.entries))
	copy(entries, p.entries)
	return entries
}

func (p *Plan) Entry(id string) (PlanEntry, bool) {
	idx, ok := p.byID[id]
	if !ok {
		return PlanEntry{}, false
	}
	return p.entries[idx], true
}

func (p *Plan) Len() int {
	return len(p.entries)
}

// ZeroState maps every planned exercise to zero completed sets.
func (p *Plan) ZeroState() State {
	state := make(State, len(p.entries))
	for _, entry := range p.entries {
		state[entry.ID] = ExerciseProgress{}
	}
	return state
}

// Package profile holds the active user profile. The progress engine reads
// its goals and never changes them.
package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/2beens/fitprogress/internal/progress"
)

type Profile struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Age               int      `json:"age,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	Height            float64  `json:"height,omitempty"`
	Weight            float64  `json:"weight,omitempty"`
	DailyCalorieGoal  *float64 `json:"dailyCalorieGoal,omitempty"`
	WeeklyWorkoutGoal *int     `json:"weeklyWorkoutGoal,omitempty"`
}

// Patch carries the fields to change, nil fields are left untouched.
type Patch struct {
	Name              *string  `json:"name"`
	Email             *string  `json:"email"`
	Age               *int     `json:"age"`
	Gender            *string  `json:"gender"`
	Height            *float64 `json:"height"`
	Weight            *float64 `json:"weight"`
	DailyCalorieGoal  *float64 `json:"dailyCalorieGoal"`
	WeeklyWorkoutGoal *int     `json:"weeklyWorkoutGoal"`
}

var ErrNegativeGoal = errors.New("goals must not be negative")

func (p Patch) Validate() error {
	if (p.DailyCalorieGoal != nil && *p.DailyCalorieGoal < 0) ||
		(p.WeeklyWorkoutGoal != nil && *p.WeeklyWorkoutGoal < 0) {
		return ErrNegativeGoal
	}
	return nil
}

// AccountStore persists profile changes of a logged in user.
type AccountStore interface {
	SaveProfile(ctx context.Context, email string, patch Patch) (Profile, error)
}

func (p Profile) Apply(patch Patch) Profile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.DailyCalorieGoal != nil {
		goal := *patch.DailyCalorieGoal
		p.DailyCalorieGoal = &goal
	}
	if patch.WeeklyWorkoutGoal != nil {
		goal := *patch.WeeklyWorkoutGoal
		p.WeeklyWorkoutGoal = &goal
	}
	return p
}

// Goals fills absent goals with the defaults. Explicit values, zero
// included, are passed through as they are.
func (p Profile) Goals(defaults progress.Goals) progress.Goals {
	goals := defaults
	if p.DailyCalorieGoal != nil {
		goals.DailyCalorieGoal = *p.DailyCalorieGoal
	}
	if p.WeeklyWorkoutGoal != nil {
		goals.WeeklyWorkoutGoal = *p.WeeklyWorkoutGoal
	}
	return goals
}

var _ progress.GoalProvider = (*Service)(nil)

type Service struct {
	defaults progress.Goals

	mutex  sync.RWMutex
	active Profile
}

func NewService(defaults progress.Goals) *Service {
	return &Service{
		defaults: defaults,
	}
}

func (s *Service) Get() Profile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.active.clone()
}

func (s *Service) Set(p Profile) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.active = p.clone()
}

func (s *Service) Update(patch Patch) Profile {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.active = s.active.Apply(patch)
	return s.active.clone()
}

// Reset drops the active profile, e.g. on logout.
func (s *Service) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.active = Profile{}
}

func (s *Service) Goals() progress.Goals {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.active.Goals(s.defaults)
}

// clone detaches the goal pointers from the stored profile.
func (p Profile) clone() Profile {
	if p.DailyCalorieGoal != nil {
		goal := *p.DailyCalorieGoal
		p.DailyCalorieGoal = &goal
	}
	if p.WeeklyWorkoutGoal != nil {
		goal := *p.WeeklyWorkoutGoal
		p.WeeklyWorkoutGoal = &goal
	}
	return p
}

// StatusText is the dashboard headline for a daily goal percentage.
func StatusText(percent int) string {
	switch {
	case percent >= 100:
		return "GOAL COMPLETED"
	case percent >= 75:
		return "ALMOST THERE"
	case percent >= 50:
		return "ON TRACK"
	default:
		return "START STRONG"
	}
}

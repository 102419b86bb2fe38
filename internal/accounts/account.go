package accounts

import (
	"strings"
	"time"

	"github.com/2beens/fitprogress/internal/profile"
)

type Account struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"passwordHash"`
	Age               int       `json:"age,omitempty"`
	Gender            string    `json:"gender,omitempty"`
	Height            float64   `json:"height,omitempty"`
	Weight            float64   `json:"weight,omitempty"`
	DailyCalorieGoal  *float64  `json:"dailyCalorieGoal,omitempty"`
	WeeklyWorkoutGoal *int      `json:"weeklyWorkoutGoal,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type NewAccount struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Profile is the account as seen by the rest of the app, without the
// credentials.
func (a Account) Profile() profile.Profile {
	return profile.Profile{
		Name:              a.Name,
		Email:             a.Email,
		Age:               a.Age,
		Gender:            a.Gender,
		Height:            a.Height,
		Weight:            a.Weight,
		DailyCalorieGoal:  a.DailyCalorieGoal,
		WeeklyWorkoutGoal: a.WeeklyWorkoutGoal,
	}
}

func (a Account) apply(patch profile.Patch) Account {
	p := a.Profile().Apply(patch)
	a.Name = p.Name
	a.Email = normalizeEmail(p.Email)
	a.Age = p.Age
	a.Gender = p.Gender
	a.Height = p.Height
	a.Weight = p.Weight
	a.DailyCalorieGoal = p.DailyCalorieGoal
	a.WeeklyWorkoutGoal = p.WeeklyWorkoutGoal
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package test

import (
	"encoding/json"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/2beens/fitprogress/internal/profile"
)

type profileResponse struct {
	Profile    profile.Profile `json:"profile"`
	StatusText string          `json:"statusText"`
	Goals      struct {
		DailyCalorieGoal  float64 `json:"dailyCalorieGoal"`
		WeeklyWorkoutGoal int     `json:"weeklyWorkoutGoal"`
	} `json:"goals"`
}

func (s *IntegrationTestSuite) TestAccounts_signupLoginAndGoals() {
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)
	signup, err := json.Marshal(map[string]string{
		"email":    email,
		"name":     gofakeit.Name(),
		"password": password,
	})
	s.Require().NoError(err)

	status, body := s.do("POST", "/accounts/signup", string(signup), nil)
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, _ = s.do("POST", "/accounts/signup", string(signup), nil)
	s.Equal(http.StatusConflict, status)

	status, body = s.do("PUT", "/accounts/profile", `{"dailyCalorieGoal": 1500, "weeklyWorkoutGoal": 6}`, nil)
	s.Require().Equal(http.StatusOK, status, string(body))

	// accounts live in redis, the active profile does not
	s.restartServer()

	var resp profileResponse
	s.getJSON("/profile", &resp)
	s.Empty(resp.Profile.Email)
	s.Equal(2200.0, resp.Goals.DailyCalorieGoal)
	s.Equal("START STRONG", resp.StatusText)

	login, err := json.Marshal(map[string]string{"email": email, "password": password})
	s.Require().NoError(err)
	status, body = s.do("POST", "/accounts/login", string(login), nil)
	s.Require().Equal(http.StatusOK, status, string(body))

	s.getJSON("/profile", &resp)
	s.Equal(email, resp.Profile.Email)
	s.Equal(1500.0, resp.Goals.DailyCalorieGoal)
	s.Equal(6, resp.Goals.WeeklyWorkoutGoal)

	status, _ = s.do("POST", "/accounts/logout", "", nil)
	s.Equal(http.StatusOK, status)
	s.getJSON("/profile", &resp)
	s.Empty(resp.Profile.Email)
}

func (s *IntegrationTestSuite) TestAccounts_wrongPassword() {
	status, _ := s.do("POST", "/accounts/signup", `{"email":"ana@example.com","name":"Ana","password":"secret-pass"}`, nil)
	s.Require().Equal(http.StatusCreated, status)

	status, _ = s.do("POST", "/accounts/login", `{"email":"ana@example.com","password":"nope-nope"}`, nil)
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.do("POST", "/accounts/login", `{"email":"bob@example.com","password":"secret-pass"}`, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestAccounts_rateLimited() {
	// the limiter buckets by client ip
	headers := map[string]string{"X-Real-Ip": "10.1.2.3"}
	body := `{"email":"nobody@example.com","password":"whatever"}`

	for i := 0; i < loginRateLimitAllowedPerMin; i++ {
		status, _ := s.do("POST", "/accounts/login", body, headers)
		s.Require().Equal(http.StatusUnauthorized, status)
	}

	status, _ := s.do("POST", "/accounts/login", body, headers)
	s.Equal(http.StatusTooManyRequests, status)

	// other clients are not affected
	status, _ = s.do("POST", "/accounts/login", body, map[string]string{"X-Real-Ip": "10.1.2.4"})
	s.Equal(http.StatusUnauthorized, status)
}

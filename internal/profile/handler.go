package profile

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/fitprogress/internal/progress"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  *Service
	engine   *progress.Engine
	accounts AccountStore
}

// NewHandler wires the profile routes. accounts may be nil, goals then
// only live in memory.
func NewHandler(service *Service, engine *progress.Engine, accounts AccountStore) *Handler {
	return &Handler{
		service:  service,
		engine:   engine,
		accounts: accounts,
	}
}

type profileResponse struct {
	Profile    Profile         `json:"profile"`
	Goals      progress.Goals  `json:"goals"`
	Totals     progress.Totals `json:"totals"`
	StatusText string          `json:"statusText"`
}

type goalsRequest struct {
	DailyCalorieGoal  *float64 `json:"dailyCalorieGoal"`
	WeeklyWorkoutGoal *int     `json:"weeklyWorkoutGoal"`
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, _ *http.Request) {
	h.writeProfile(w)
}

func (h *Handler) HandleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req goalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update goals, unmarshal json params: %s", err)
		http.Error(w, "update goals failed", http.StatusBadRequest)
		return
	}
	if req.DailyCalorieGoal == nil && req.WeeklyWorkoutGoal == nil {
		http.Error(w, "no goals given", http.StatusBadRequest)
		return
	}
	patch := Patch{
		DailyCalorieGoal:  req.DailyCalorieGoal,
		WeeklyWorkoutGoal: req.WeeklyWorkoutGoal,
	}
	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	email := h.service.Get().Email
	if email == "" || h.accounts == nil {
		h.service.Update(patch)
		h.writeProfile(w)
		return
	}

	saved, err := h.accounts.SaveProfile(r.Context(), email, patch)
	if err != nil {
		log.Errorf("update goals, save account [%s]: %s", email, err)
		http.Error(w, "update goals failed", http.StatusInternalServerError)
		return
	}
	h.service.Set(saved)
	h.writeProfile(w)
}

func (h *Handler) writeProfile(w http.ResponseWriter) {
	totals := h.engine.ComputeTotals()
	resp, err := json.Marshal(profileResponse{
		Profile:    h.service.Get(),
		Goals:      h.service.Goals(),
		Totals:     totals,
		StatusText: StatusText(totals.Percent),
	})
	if err != nil {
		log.Errorf("marshal profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

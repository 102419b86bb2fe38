package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitprogress/internal/profile"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=accounts_test

type accountsService interface {
	FindAccount(ctx context.Context, email string) (*Account, error)
	AddAccount(ctx context.Context, newAccount NewAccount) (*Account, error)
	UpdateAccount(ctx context.Context, email string, patch profile.Patch) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Account, error)
}

type activeProfile interface {
	Get() profile.Profile
	Set(p profile.Profile)
	Reset()
}

type Handler struct {
	service accountsService
	profile activeProfile
}

func NewHandler(service accountsService, profile activeProfile) *Handler {
	return &Handler{
		service: service,
		profile: profile,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.accounts.signup")
	defer span.End()

	var newAccount NewAccount
	if !decodeJSON(w, r, &newAccount) {
		return
	}

	account, err := h.service.AddAccount(ctx, newAccount)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountExists):
			http.Error(w, "account already exists", http.StatusConflict)
		case errors.Is(err, ErrInvalidAccount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("signup: %s", err)
			http.Error(w, "signup failed", http.StatusInternalServerError)
		}
		return
	}

	h.profile.Set(account.Profile())
	writeProfile(w, account.Profile(), http.StatusCreated)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.accounts.login")
	defer span.End()

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrWrongPassword) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Errorf("login: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.profile.Set(account.Profile())
	writeProfile(w, account.Profile(), http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	h.profile.Reset()
	pkg.WriteTextResponseOK(w, "logged-out")
}

// HandleUpdateProfile writes the patch to the logged in account and to the
// active profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.accounts.profile")
	defer span.End()

	current := h.profile.Get()
	if current.Email == "" {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	var patch profile.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.service.UpdateAccount(ctx, current.Email, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound):
			http.Error(w, "account not found", http.StatusNotFound)
		case errors.Is(err, ErrAccountExists):
			http.Error(w, "email already taken", http.StatusConflict)
		case errors.Is(err, ErrInvalidAccount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("update profile: %s", err)
			http.Error(w, "update profile failed", http.StatusInternalServerError)
		}
		return
	}

	h.profile.Set(account.Profile())
	writeProfile(w, account.Profile(), http.StatusOK)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Errorf("accounts, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeProfile(w http.ResponseWriter, p profile.Profile, status int) {
	resp, err := json.Marshal(p)
	if err != nil {
		log.Errorf("marshal profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, status)
}

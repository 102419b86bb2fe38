// Package accounts stores the local user accounts. All accounts live as
// one JSON list under a single key of the kv store.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/2beens/fitprogress/internal/kvstore"
	"github.com/2beens/fitprogress/internal/profile"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultStorageKey = "fitprogress||accounts-v1"

	cacheExpireSeconds = 5 * 60
	minPasswordLength  = 6
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrInvalidAccount  = errors.New("invalid account data")
)

type Service struct {
	kv           kvstore.Store
	key          string
	cache        *freecache.Cache
	passwordCost int

	// serializes read-modify-write of the account list
	mutex sync.Mutex
}

func NewService(kv kvstore.Store, key string, passwordCost int) *Service {
	if key == "" {
		key = DefaultStorageKey
	}
	if passwordCost <= 0 {
		passwordCost = pkg.DefaultPasswordCost
	}

	megabyte := 1024 * 1024
	return &Service{
		kv:           kv,
		key:          key,
		cache:        freecache.NewCache(megabyte),
		passwordCost: passwordCost,
	}
}

func (s *Service) Accounts(ctx context.Context) ([]Account, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.load(ctx)
}

func (s *Service) FindAccount(ctx context.Context, email string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accounts.find")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrAccountNotFound
	}

	if cached, err := s.cache.Get([]byte(email)); err == nil {
		var account Account
		if err := json.Unmarshal(cached, &account); err == nil {
			span.SetAttributes(attribute.Bool("cached", true))
			return &account, nil
		}
		log.Warnf("accounts: bad cache entry for %s", email)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Errorf("accounts: cache get: %s", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	accounts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Email == email {
			s.cacheAccount(accounts[i])
			return &accounts[i], nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *Service) AddAccount(ctx context.Context, newAccount NewAccount) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accounts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email := normalizeEmail(newAccount.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: bad email", ErrInvalidAccount)
	}
	if len(newAccount.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password too short", ErrInvalidAccount)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	accounts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return nil, ErrAccountExists
		}
	}

	passwordHash, err := pkg.HashPasswordWithCost(newAccount.Password, s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         newAccount.Name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	accounts = append(accounts, account)
	if err := s.save(ctx, accounts); err != nil {
		return nil, err
	}

	log.Debugf("accounts: added account %s", account.ID)
	return &account, nil
}

// UpdateAccount merges the patch into the account found by email.
func (s *Service) UpdateAccount(ctx context.Context, email string, patch profile.Patch) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accounts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	email = normalizeEmail(email)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	accounts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range accounts {
		if accounts[i].Email == email {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrAccountNotFound
	}

	updated := accounts[idx].apply(patch)
	if updated.Email != email {
		if _, err := mail.ParseAddress(updated.Email); err != nil {
			return nil, fmt.Errorf("%w: bad email", ErrInvalidAccount)
		}
		for i := range accounts {
			if i != idx && accounts[i].Email == updated.Email {
				return nil, ErrAccountExists
			}
		}
	}
	accounts[idx] = updated

	if err := s.save(ctx, accounts); err != nil {
		return nil, err
	}

	s.cache.Del([]byte(email))
	s.cache.Del([]byte(updated.Email))
	return &updated, nil
}

var _ profile.AccountStore = (*Service)(nil)

// SaveProfile is UpdateAccount returning the resulting profile.
func (s *Service) SaveProfile(ctx context.Context, email string, patch profile.Patch) (profile.Profile, error) {
	account, err := s.UpdateAccount(ctx, email, patch)
	if err != nil {
		return profile.Profile{}, err
	}
	return account.Profile(), nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.FindAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if !pkg.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrWrongPassword
	}
	return account, nil
}

// load returns an empty list for missing or unreadable data, like a fresh
// install would.
func (s *Service) load(ctx context.Context) ([]Account, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return []Account{}, nil
		}
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	var accounts []Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		log.Warnf("accounts: stored accounts are unreadable: %s", err)
		return []Account{}, nil
	}
	return accounts, nil
}

func (s *Service) save(ctx context.Context, accounts []Account) error {
	serialized, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(serialized)); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *Service) cacheAccount(account Account) {
	serialized, err := json.Marshal(account)
	if err != nil {
		log.Errorf("accounts: marshal for cache: %s", err)
		return
	}
	if err := s.cache.Set([]byte(account.Email), serialized, cacheExpireSeconds); err != nil {
		log.Errorf("accounts: cache set: %s", err)
	}
}

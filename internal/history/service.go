// Package history keeps the weekly progress aggregate shown next to the
// daily totals: a seven day series, the daily rings and the streak.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitprogress/internal/kvstore"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

const DefaultStorageKey = "fitprogress||weekly-history-v1"

type Service struct {
	kv  kvstore.Store
	key string
	now func() time.Time

	mutex   sync.Mutex
	current Weekly
	loaded  bool
}

func NewService(kv kvstore.Store, key string) *Service {
	return NewServiceWithClock(kv, key, time.Now)
}

func NewServiceWithClock(kv kvstore.Store, key string, now func() time.Time) *Service {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Service{
		kv:  kv,
		key: key,
		now: now,
	}
}

// Load reads the stored aggregate. Missing or unreadable data starts a
// fresh week. Only the first call reads from the store.
func (s *Service) Load(ctx context.Context) (Weekly, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return Weekly{}, err
	}
	return s.current, nil
}

func (s *Service) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "history.load")
	defer span.End()

	raw, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		s.current = Weekly{}
	case err != nil:
		return fmt.Errorf("get weekly history: %w", err)
	default:
		var weekly Weekly
		if err := json.Unmarshal([]byte(raw), &weekly); err != nil {
			log.Warnf("history: stored weekly history is unreadable, starting a new week: %s", err)
			tracing.RecordSoftError(span, err)
			weekly = Weekly{}
		}
		s.current = weekly
	}

	s.loaded = true
	return nil
}

// Record writes today's slot from a progress sample.
func (s *Service) Record(ctx context.Context, sample DaySample) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	s.catchUpLocked()
	s.current.apply(sample)
	return s.saveLocked(ctx)
}

// Rollover opens a new day. Days missed while the process was down are
// filled with zeros.
func (s *Service) Rollover(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.rollover")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	if !s.catchUpLocked() {
		return nil
	}
	log.Debugf("history: rolled over to %s", s.current.Day)
	return s.saveLocked(ctx)
}

// Reset replaces the aggregate with its zero state.
func (s *Service) Reset(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.current = Weekly{Day: s.today()}
	s.loaded = true
	return s.saveLocked(ctx)
}

func (s *Service) Snapshot(ctx context.Context) (Summary, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return Summary{}, err
	}
	weekly := s.current
	if days := s.daysBehind(); days > 0 {
		// report the shifted view without writing it
		weekly.shift(days)
	}
	return weekly.Summary(), nil
}

// catchUpLocked shifts the window to today, returning whether it moved.
func (s *Service) catchUpLocked() bool {
	days := s.daysBehind()
	if s.current.Day != "" && days <= 0 {
		return false
	}
	s.current.shift(days)
	s.current.Day = s.today()
	return true
}

func (s *Service) daysBehind() int {
	if s.current.Day == "" {
		return 0
	}
	last, err := time.Parse(dayLayout, s.current.Day)
	if err != nil {
		return DaysInWeek
	}
	todayDate, _ := time.Parse(dayLayout, s.today())
	days := int(todayDate.Sub(last).Hours() / 24)
	if days < 0 {
		// stored day is in the future, e.g. the clock was set back
		return DaysInWeek
	}
	return days
}

func (s *Service) today() string {
	return s.now().Format(dayLayout)
}

func (s *Service) saveLocked(ctx context.Context) error {
	serialized, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("marshal weekly history: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(serialized)); err != nil {
		return fmt.Errorf("save weekly history: %w", err)
	}
	return nil
}

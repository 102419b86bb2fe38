package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitprogress/internal/kvstore"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

const DefaultStorageKey = "fitprogress||progress-v1"

// Store persists the completion state as one serialized value under a
// single key of the underlying kv store.
type Store struct {
	kv  kvstore.Store
	key string
}

func NewStore(kv kvstore.Store, key string) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Store{
		kv:  kv,
		key: key,
	}
}

// Load never fails: missing or unreadable data is replaced with a zero
// state which is persisted right away. The second return value reports
// whether such a recovery happened.
func (s *Store) Load(ctx context.Context, plan *Plan) (State, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.store.load")
	defer span.End()

	raw, err := s.kv.Get(ctx, s.key)
	if err == nil {
		state, parseErr := parseState(raw)
		if parseErr == nil {
			if state.normalize(plan) {
				log.Debugf("progress store: normalized stored state under [%s]", s.key)
			}
			return state, false
		}
		err = parseErr
	}

	if errors.Is(err, kvstore.ErrNotFound) {
		log.Debugf("progress store: no state under [%s], initializing", s.key)
	} else {
		log.Warnf("progress store: load [%s]: %s, starting from zero state", s.key, err)
		tracing.RecordSoftError(span, err)
	}

	state := plan.ZeroState()
	if saveErr := s.Save(ctx, state); saveErr != nil {
		log.Errorf("progress store: persist initial state: %s", saveErr)
		tracing.RecordSoftError(span, saveErr)
	}
	return state, true
}

func (s *Store) Save(ctx context.Context, state State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.store.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	serialized, err := state.Marshal()
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, serialized); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func parseState(raw string) (State, error) {
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if state == nil {
		return nil, errors.New("stored state is empty")
	}
	return state, nil
}

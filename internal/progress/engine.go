// Package progress turns completed sets into calorie totals, goal
// percentage and weekly workout slots, and keeps that state durable.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/fitprogress/internal/catalog"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	opCompleteSet   = "complete_set"
	opResetExercise = "reset_exercise"
	opMarkDone      = "mark_done"
	opClearAll      = "clear_all"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

type stateStore interface {
	Load(ctx context.Context, plan *Plan) (State, bool)
	Save(ctx context.Context, state State) error
}

// weeklyHistory is the auxiliary aggregate wiped together with the progress.
type weeklyHistory interface {
	Reset(ctx context.Context) error
}

type SetResult struct {
	ExerciseID    string `json:"exerciseId"`
	CompletedSets int    `json:"completedSets"`
	TotalSets     int    `json:"totalSets"`
}

type EngineParams struct {
	Exercises       []catalog.Exercise
	CategoryBudgets map[string]float64
	Store           stateStore
	Goals           GoalProvider
	// History and Metrics are optional
	History weeklyHistory
	Metrics *metrics.Manager
}

// Engine owns the allocation plan and the completion state. One engine is
// created per process and shared by all consumers.
type Engine struct {
	store   stateStore
	goals   GoalProvider
	history weeklyHistory
	metrics *metrics.Manager

	mutex       sync.RWMutex
	plan        *Plan
	state       State
	initialized bool

	// keeps durable writes ordered
	persistMutex sync.Mutex

	observers observerRegistry
}

func NewEngine(params EngineParams) *Engine {
	budgets := params.CategoryBudgets
	if budgets == nil {
		budgets = DefaultCategoryBudgets()
	}

	plan := BuildPlan(params.Exercises, budgets)
	return &Engine{
		store:   params.Store,
		goals:   params.Goals,
		history: params.History,
		metrics: params.Metrics,
		plan:    plan,
		// reads before Init see an all-zero state
		state: plan.ZeroState(),
	}
}

// Init loads the persisted state. Only the first call does any work, later
// calls never overwrite the in-memory state.
func (e *Engine) Init(ctx context.Context) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.initLocked(ctx)
}

func (e *Engine) initLocked(ctx context.Context) {
	if e.initialized {
		return
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.engine.init")
	defer span.End()

	state, recovered := e.store.Load(ctx, e.plan)
	if recovered && e.metrics != nil {
		e.metrics.CounterStateRecoveries.Inc()
	}
	span.SetAttributes(
		attribute.Int("plan.entries", e.plan.Len()),
		attribute.Bool("recovered", recovered),
	)

	e.state = state
	e.initialized = true
	log.Debugf("progress engine initialized, %d exercises planned", e.plan.Len())
}

func (e *Engine) Initialized() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.initialized
}

// CompleteSet moves the exercise one set forward, stopping at its target.
// Returns false for an exercise that is not in the plan.
func (e *Engine) CompleteSet(ctx context.Context, exerciseID string) (SetResult, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.engine.completeSet")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	e.mutex.Lock()
	e.initLocked(ctx)
	entry, ok := e.plan.Entry(exerciseID)
	if !ok {
		e.mutex.Unlock()
		return SetResult{}, false
	}

	current := e.state[exerciseID]
	advanced := current.CompletedSets < entry.Sets
	if advanced {
		current.CompletedSets++
	}
	e.state[exerciseID] = current
	e.mutex.Unlock()

	if advanced && e.metrics != nil {
		e.metrics.CounterSetsCompleted.Inc()
	}
	e.commit(ctx, opCompleteSet)

	return SetResult{
		ExerciseID:    exerciseID,
		CompletedSets: current.CompletedSets,
		TotalSets:     entry.Sets,
	}, true
}

func (e *Engine) ResetExercise(ctx context.Context, exerciseID string) (ExerciseProgress, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.engine.resetExercise")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	return e.setCompletedSets(ctx, exerciseID, opResetExercise, func(PlanEntry) int {
		return 0
	})
}

func (e *Engine) MarkExerciseDone(ctx context.Context, exerciseID string) (ExerciseProgress, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.engine.markExerciseDone")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	return e.setCompletedSets(ctx, exerciseID, opMarkDone, func(entry PlanEntry) int {
		return entry.Sets
	})
}

func (e *Engine) setCompletedSets(
	ctx context.Context,
	exerciseID string,
	op string,
	target func(PlanEntry) int,
) (ExerciseProgress, bool) {
	e.mutex.Lock()
	e.initLocked(ctx)
	entry, ok := e.plan.Entry(exerciseID)
	if !ok {
		e.mutex.Unlock()
		return ExerciseProgress{}, false
	}
	updated := ExerciseProgress{CompletedSets: target(entry)}
	e.state[exerciseID] = updated
	e.mutex.Unlock()

	e.commit(ctx, op)
	return updated, true
}

// ClearAll zeroes every exercise and the weekly history.
func (e *Engine) ClearAll(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.engine.clearAll")
	defer span.End()

	e.mutex.Lock()
	e.initLocked(ctx)
	e.state = e.plan.ZeroState()
	e.mutex.Unlock()

	if e.history != nil {
		if err := e.history.Reset(ctx); err != nil {
			log.Errorf("progress engine: reset weekly history: %s", err)
			tracing.RecordSoftError(span, err)
		}
	}

	e.commit(ctx, opClearAll)
}

// commit persists the current state and, if the write went through,
// notifies the observers. A failed write is absorbed: the in-memory state
// stays authoritative for the rest of the process lifetime.
func (e *Engine) commit(ctx context.Context, op string) {
	if e.metrics != nil {
		e.metrics.CounterProgressMutations.WithLabelValues(op).Inc()
		e.metrics.GaugeDailyPercent.Set(float64(e.ComputeTotals().Percent))
	}

	if err := e.persist(ctx); err != nil {
		log.Errorf("progress engine: %s: persist state: %s", op, err)
		if e.metrics != nil {
			e.metrics.CounterPersistFailures.Inc()
		}
		return
	}

	failed, err := e.observers.notify()
	if err != nil {
		log.Errorf("progress engine: %s: %d observer(s) failed: %s", op, failed, err)
		if e.metrics != nil {
			e.metrics.CounterObserverFailures.Add(float64(failed))
		}
	}
}

func (e *Engine) persist(ctx context.Context) error {
	e.persistMutex.Lock()
	defer e.persistMutex.Unlock()

	// snapshot taken under the persist lock, so the last write always
	// carries the latest state
	snapshot := e.GetState()

	start := time.Now()
	err := e.store.Save(ctx, snapshot)
	if e.metrics != nil {
		e.metrics.HistPersistDuration.Observe(time.Since(start).Seconds())
	}
	return err
}

func (e *Engine) ComputeTotals() Totals {
	goals := DefaultGoals()
	if e.goals != nil {
		goals = e.goals.Goals()
	}

	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return ComputeTotals(e.plan, e.state, goals)
}

// GetState returns a copy of the completion state.
func (e *Engine) GetState() State {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.state.Clone()
}

func (e *Engine) GetPlan() []PlanEntry {
	return e.plan.Entries()
}

func (e *Engine) PlanEntry(exerciseID string) (PlanEntry, bool) {
	return e.plan.Entry(exerciseID)
}

// Subscribe registers an observer and returns the function removing it.
// Calling the returned function more than once is safe.
func (e *Engine) Subscribe(observer Observer) func() {
	return e.observers.add(observer)
}

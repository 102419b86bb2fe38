package progress

import (
	"context"
	"time"

	"github.com/2beens/fitprogress/internal/history"

	log "github.com/sirupsen/logrus"
)

const historyRecordTimeout = 5 * time.Second

type dayRecorder interface {
	Record(ctx context.Context, sample history.DaySample) error
}

// DaySample is the current totals as a weekly history sample.
func (e *Engine) DaySample() history.DaySample {
	goals := DefaultGoals()
	if e.goals != nil {
		goals = e.goals.Goals()
	}

	e.mutex.RLock()
	totals := ComputeTotals(e.plan, e.state, goals)
	e.mutex.RUnlock()

	return history.DaySample{
		Percent:            totals.Percent,
		CompletedWorkouts:  totals.CompletedWorkouts,
		WeeklyWorkoutGoal:  goals.WeeklyWorkoutGoal,
		CompletedExercises: totals.CompletedExercises,
		TotalExercises:     e.plan.Len(),
	}
}

// TrackHistory records the current totals into today's slot, then keeps
// recording after every committed change. Returns the unsubscribe function.
func (e *Engine) TrackHistory(recorder dayRecorder) func() {
	record := func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyRecordTimeout)
		defer cancel()

		if err := recorder.Record(ctx, e.DaySample()); err != nil {
			log.Errorf("progress engine: record weekly history: %s", err)
		}
	}

	record()
	return e.Subscribe(record)
}

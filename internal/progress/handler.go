package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitprogress/internal/history"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const defaultEventsKeepAlive = 30 * time.Second

type historySnapshotter interface {
	Snapshot(ctx context.Context) (history.Summary, error)
}

type Handler struct {
	engine    *Engine
	history   historySnapshotter
	keepAlive time.Duration
}

func NewHandler(engine *Engine, history historySnapshotter) *Handler {
	return &Handler{
		engine:    engine,
		history:   history,
		keepAlive: defaultEventsKeepAlive,
	}
}

func (h *Handler) SetEventsKeepAlive(keepAlive time.Duration) {
	h.keepAlive = keepAlive
}

func (h *Handler) HandleGetPlan(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.GetPlan(), http.StatusOK)
}

func (h *Handler) HandleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.GetState(), http.StatusOK)
}

func (h *Handler) HandleGetTotals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.engine.ComputeTotals(), http.StatusOK)
}

func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.history")
	defer span.End()

	summary, err := h.history.Snapshot(ctx)
	if err != nil {
		log.Errorf("get weekly history: %s", err)
		http.Error(w, "failed to get weekly history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary, http.StatusOK)
}

func (h *Handler) HandleCompleteSet(w http.ResponseWriter, r *http.Request) {
	exerciseID := mux.Vars(r)["id"]
	result, ok := h.engine.CompleteSet(r.Context(), exerciseID)
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleResetExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID := mux.Vars(r)["id"]
	updated, ok := h.engine.ResetExercise(r.Context(), exerciseID)
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleMarkExerciseDone(w http.ResponseWriter, r *http.Request) {
	exerciseID := mux.Vars(r)["id"]
	updated, ok := h.engine.MarkExerciseDone(r.Context(), exerciseID)
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *Handler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearAll(r.Context())
	writeJSON(w, h.engine.ComputeTotals(), http.StatusOK)
}

// HandleEvents streams one "changed" server-sent event per engine
// notification. Events carry no payload, clients re-read the totals.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// coalesce notifications the client has not consumed yet
	changed := make(chan struct{}, 1)
	unsubscribe := h.engine.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", pkg.ContentType.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "ready"); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-changed:
			if err := writeEvent(w, "changed"); err != nil {
				log.Debugf("progress events: client gone: %s", err)
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: {}\n\n", event)
	return err
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, status)
}

package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/fitprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

func (h *Handler) HandleAll(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.catalog.All())
}

func (h *Handler) HandleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.catalog.Categories())
}

func (h *Handler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	exercises := h.catalog.InCategory(category)
	if len(exercises) == 0 {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, exercises)
}

func writeJSON(w http.ResponseWriter, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("catalog: marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type ResultsHandler struct {
	service ports.AggregationService
}

func NewResultsHandler(service ports.AggregationService) *ResultsHandler {
	return &ResultsHandler{
		service: service,
	}
}

// GetResults returns the ranked per-list totals, optionally filtered by
// category (?category=LOCAL|PROVINCIAL). Recomputed from current store
// state on every call.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	var category *domain.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := domain.Category(raw)
		if !c.Valid() {
			http.Error(w, "invalid category filter", http.StatusBadRequest)
			return
		}
		category = &c
	}

	set, err := h.service.Results(r.Context(), category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

type statsResponse struct {
	*domain.SystemStats
	// DisplayParticipationPercent clamps the raw estimate at 100 for
	// dashboards; the underlying value stays uncapped.
	DisplayParticipationPercent float64 `json:"display_participation_percent"`
}

func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	display := stats.EstimatedParticipationPercent
	if display > 100 {
		display = 100
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		SystemStats:                 stats,
		DisplayParticipationPercent: display,
	})
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type TableHandler struct {
	service ports.TableService
}

func NewTableHandler(service ports.TableService) *TableHandler {
	return &TableHandler{
		service: service,
	}
}

type listTablesResponse struct {
	Tables []*domain.PollingTable `json:"tables"`
	Total  int                    `json:"total"`
	Page   int                    `json:"page"`
	Limit  int                    `json:"limit"`
}

func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}

	filter := ports.ListTablesFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TableStatus(raw)
		if status != domain.StatusPending && status != domain.StatusSubmitted {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}

	tables, total, err := h.service.ListTables(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tables == nil {
		tables = []*domain.PollingTable{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listTablesResponse{
		Tables: tables,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

func (h *TableHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.ListPending(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tables == nil {
		tables = []*domain.PollingTable{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tables)
}

func (h *TableHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumberParam(r)
	if err != nil {
		http.Error(w, "invalid table number", http.StatusBadRequest)
		return
	}

	detail, err := h.service.GetDetail(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// ValidateTable re-checks a submitted table's stored acta against the
// consistency rules, for after-the-fact review.
func (h *TableHandler) ValidateTable(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumberParam(r)
	if err != nil {
		http.Error(w, "invalid table number", http.StatusBadRequest)
		return
	}

	validation, err := h.service.ValidateStored(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) || errors.Is(err, domain.ErrActaNotFound) {
			http.Error(w, "table not found or not submitted", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validation)
}

func tableNumberParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "number"))
}

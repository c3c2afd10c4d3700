package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type TallyHandler struct {
	service ports.TallyService
}

func NewTallyHandler(service ports.TallyService) *TallyHandler {
	return &TallyHandler{
		service: service,
	}
}

type submitActaResponse struct {
	Acta     *domain.TallyRecord  `json:"acta"`
	Warnings []domain.WarningKind `json:"warnings"`
}

// SubmitActa is the submission intake: it decodes the tally bundle,
// runs it through validation and, when clean, commits it atomically. A
// rejected form answers with the complete error list; a concurrency
// collision answers 409 so the operator retries.
func (h *TallyHandler) SubmitActa(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	operatorID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	rec, outcome, err := h.service.SubmitTally(r.Context(), ports.SubmitTallyInput{
		Submission: sub,
		OperatorID: operatorID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWriteConflict) {
			http.Error(w, domain.ErrWriteConflict.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !outcome.OK() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(outcome)
		return
	}

	warnings := outcome.Warnings
	if warnings == nil {
		warnings = []domain.WarningKind{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(submitActaResponse{Acta: rec, Warnings: warnings}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

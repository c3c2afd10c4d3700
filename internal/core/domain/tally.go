package domain

import (
	"time"

	"github.com/google/uuid"
)

// TallyRecord is the per-table acta: the keyed-in totals from the
// official paper form. Exactly one record may exist per table; a
// resubmission overwrites every field, nothing accumulates.
type TallyRecord struct {
	TableNumber       int       `json:"table_number"`
	ElectorsVoted     int       `json:"electors_voted"`
	EnvelopesReceived int       `json:"envelopes_received"`
	Difference        int       `json:"difference"`
	BlankVotes        int       `json:"blank_votes"`
	ChallengedVotes   int       `json:"challenged_votes"`
	DeferredVotes     int       `json:"deferred_votes"`
	Notes             string    `json:"notes,omitempty"`
	OperatorID        uuid.UUID `json:"operator_id"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// ComputeDifference stamps the derived electors-minus-envelopes field.
// The difference is never taken from the submission; it is always
// recomputed from the two source counts.
func (r *TallyRecord) ComputeDifference() {
	r.Difference = r.ElectorsVoted - r.EnvelopesReceived
}

// VoteLine is one (table, list) count. The full set of lines for a
// table is replaced atomically on every commit; a line is only stored
// when its count is positive.
type VoteLine struct {
	TableNumber int   `json:"table_number"`
	ListID      int64 `json:"list_id"`
	Count       int   `json:"count"`
}

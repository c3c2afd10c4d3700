package domain

import (
	"time"

	"github.com/google/uuid"
)

type TableStatus string

const (
	StatusPending   TableStatus = "PENDING"
	StatusSubmitted TableStatus = "SUBMITTED"
)

// PollingTable is a single polling station ballot box ("mesa"), the
// atomic unit of acta submission. Tables are seeded once for the whole
// election and never deleted; only a successful commit mutates them.
type PollingTable struct {
	Number      int         `json:"number"`
	Location    string      `json:"location"`
	Status      TableStatus `json:"status"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty"`
	SubmittedBy *uuid.UUID  `json:"submitted_by,omitempty"`
}

func (t *PollingTable) Submitted() bool {
	return t.Status == StatusSubmitted
}

package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/tally/internal/core/domain"
)

type TallyRepository interface {
	// CommitTally runs the whole replace as one atomic unit: upsert the
	// acta, delete every vote line for the table, insert the given
	// lines, transition the table to SUBMITTED. A concurrent commit for
	// the same table surfaces domain.ErrWriteConflict.
	CommitTally(ctx context.Context, rec *domain.TallyRecord, lines []domain.VoteLine) error
	GetActa(ctx context.Context, tableNumber int) (*domain.TallyRecord, error)
	ListVotesForTable(ctx context.Context, tableNumber int) ([]domain.VoteLine, error)
}

type SubmitTallyInput struct {
	Submission domain.Submission
	OperatorID uuid.UUID
}

type TallyService interface {
	// SubmitTally validates and, when the outcome carries no errors,
	// atomically persists the acta. The outcome is always populated; a
	// nil record with a clean error means validation rejected the form.
	SubmitTally(ctx context.Context, input SubmitTallyInput) (*domain.TallyRecord, domain.Outcome, error)
}

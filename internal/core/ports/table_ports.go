package ports

import (
	"context"

	"github.com/vncsmyrnk/tally/internal/core/domain"
)

type TableRepository interface {
	GetByNumber(ctx context.Context, number int) (*domain.PollingTable, error)
	List(ctx context.Context, filter ListTablesFilter) ([]*domain.PollingTable, int, error)
	ListPending(ctx context.Context) ([]*domain.PollingTable, error)
	CountByStatus(ctx context.Context) (total int, submitted int, err error)
}

type ListTablesFilter struct {
	Status *domain.TableStatus
	Limit  int
	Offset int
}

// TableDetail bundles everything known about one table: registry row,
// acta (nil while pending) and vote lines split by category with their
// running totals.
type TableDetail struct {
	Table           *domain.PollingTable `json:"table"`
	Acta            *domain.TallyRecord  `json:"acta,omitempty"`
	LocalVotes      []VoteLineDetail     `json:"local_votes"`
	ProvincialVotes []VoteLineDetail     `json:"provincial_votes"`
	LocalTotal      int                  `json:"local_total"`
	ProvincialTotal int                  `json:"provincial_total"`
}

type VoteLineDetail struct {
	List  domain.CandidateList `json:"list"`
	Count int                  `json:"count"`
}

type TableService interface {
	ListTables(ctx context.Context, filter ListTablesFilter) ([]*domain.PollingTable, int, error)
	ListPending(ctx context.Context) ([]*domain.PollingTable, error)
	GetDetail(ctx context.Context, number int) (*TableDetail, error)
	ValidateStored(ctx context.Context, number int) (*domain.StoredValidation, error)
}

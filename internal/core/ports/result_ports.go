package ports

import (
	"context"

	"github.com/vncsmyrnk/tally/internal/core/domain"
)

// ListTotal is one grouped vote sum, pre-ranked by the store: votes
// descending, catalog order (category, rank) breaking ties.
type ListTotal struct {
	ListID int64
	Votes  int64
}

type ResultRepository interface {
	SumVotesByList(ctx context.Context, category *domain.Category) ([]ListTotal, error)
	TotalVotes(ctx context.Context) (int64, error)
	TotalElectorsVoted(ctx context.Context) (int64, error)
}

type AggregationService interface {
	Results(ctx context.Context, category *domain.Category) (*domain.ResultSet, error)
	Stats(ctx context.Context) (*domain.SystemStats, error)
}

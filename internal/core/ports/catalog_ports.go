package ports

import (
	"context"

	"github.com/vncsmyrnk/tally/internal/core/domain"
)

type ListRepository interface {
	// GetCatalog returns every candidate list, active or not, in
	// catalog order (category, then rank).
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

type CatalogService interface {
	Lists(ctx context.Context) (map[domain.Category][]domain.CandidateList, error)
}

type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type listRepository struct {
	db *sql.DB
}

func NewListRepository(db *sql.DB) ports.ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	query := `
		SELECT id, name, category, rank, active
		FROM candidate_lists
		ORDER BY category ASC, rank ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to get candidate lists: %w", err)
	}
	defer rows.Close()

	var lists []domain.CandidateList
	for rows.Next() {
		var l domain.CandidateList
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.Rank, &l.Active); err != nil {
			return domain.Catalog{}, fmt.Errorf("failed to scan candidate list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("error iterating candidate lists: %w", err)
	}

	return domain.NewCatalog(lists), nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type resultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

// SumVotesByList groups current vote lines by list. Ordering is part of
// the contract: votes descending, then catalog order (category, rank)
// so equal counts keep a stable, reproducible ranking.
func (r *resultRepository) SumVotesByList(ctx context.Context, category *domain.Category) ([]ports.ListTotal, error) {
	query := `
		SELECT v.list_id, SUM(v.count)
		FROM vote_lines v
		JOIN candidate_lists l ON l.id = v.list_id
	`
	args := []any{}
	if category != nil {
		query += ` WHERE l.category = $1`
		args = append(args, *category)
	}
	query += `
		GROUP BY v.list_id, l.category, l.rank
		ORDER BY SUM(v.count) DESC, l.category ASC, l.rank ASC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum votes by list: %w", err)
	}
	defer rows.Close()

	var totals []ports.ListTotal
	for rows.Next() {
		var t ports.ListTotal
		if err := rows.Scan(&t.ListID, &t.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan vote total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote totals: %w", err)
	}
	return totals, nil
}

func (r *resultRepository) TotalVotes(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(count), 0) FROM vote_lines`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to total votes: %w", err)
	}
	return total, nil
}

func (r *resultRepository) TotalElectorsVoted(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(electors_voted), 0) FROM tally_records`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to total electors voted: %w", err)
	}
	return total, nil
}

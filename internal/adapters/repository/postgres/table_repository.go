package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type tableRepository struct {
	db *sql.DB
}

func NewTableRepository(db *sql.DB) ports.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) GetByNumber(ctx context.Context, number int) (*domain.PollingTable, error) {
	query := `
		SELECT number, location, status, submitted_at, submitted_by
		FROM polling_tables
		WHERE number = $1
	`
	var t domain.PollingTable
	err := r.db.QueryRowContext(ctx, query, number).Scan(
		&t.Number, &t.Location, &t.Status, &t.SubmittedAt, &t.SubmittedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return &t, nil
}

func (r *tableRepository) List(ctx context.Context, filter ports.ListTablesFilter) ([]*domain.PollingTable, int, error) {
	where := ""
	args := []any{}
	if filter.Status != nil {
		where = "WHERE status = $1"
		args = append(args, *filter.Status)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM polling_tables %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tables: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT number, location, status, submitted_at, submitted_by
		FROM polling_tables
		%s
		ORDER BY number ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables, err := scanTables(rows)
	if err != nil {
		return nil, 0, err
	}
	return tables, total, nil
}

func (r *tableRepository) ListPending(ctx context.Context) ([]*domain.PollingTable, error) {
	query := `
		SELECT number, location, status, submitted_at, submitted_by
		FROM polling_tables
		WHERE status = $1
		ORDER BY number ASC
	`
	rows, err := r.db.QueryContext(ctx, query, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tables: %w", err)
	}
	defer rows.Close()

	return scanTables(rows)
}

func (r *tableRepository) CountByStatus(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM polling_tables
	`
	var total, submitted int
	if err := r.db.QueryRowContext(ctx, query, domain.StatusSubmitted).Scan(&total, &submitted); err != nil {
		return 0, 0, fmt.Errorf("failed to count tables by status: %w", err)
	}
	return total, submitted, nil
}

func scanTables(rows *sql.Rows) ([]*domain.PollingTable, error) {
	var tables []*domain.PollingTable
	for rows.Next() {
		var t domain.PollingTable
		if err := rows.Scan(&t.Number, &t.Location, &t.Status, &t.SubmittedAt, &t.SubmittedBy); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

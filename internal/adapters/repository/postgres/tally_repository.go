package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

const defaultLockTimeout = 3 * time.Second

type tallyRepository struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{db: db, lockTimeout: defaultLockTimeout}
}

// CommitTally replaces a table's entire submission as one serializable
// transaction: acta upsert, vote line delete-all-then-insert, status
// transition. The table row is locked up front so concurrent commits
// for the same table serialize; waiting past the lock timeout surfaces
// domain.ErrWriteConflict instead of blocking the operator.
func (r *tallyRepository) CommitTally(ctx context.Context, rec *domain.TallyRecord, lines []domain.VoteLine) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	var status domain.TableStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM polling_tables WHERE number = $1 FOR UPDATE`, rec.TableNumber).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTableNotFound
		}
		return wrapConflict("failed to lock table", err)
	}

	upsert := `
		INSERT INTO tally_records (
			table_number, electors_voted, envelopes_received, difference,
			blank_votes, challenged_votes, deferred_votes, notes,
			operator_id, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (table_number) DO UPDATE SET
			electors_voted = EXCLUDED.electors_voted,
			envelopes_received = EXCLUDED.envelopes_received,
			difference = EXCLUDED.difference,
			blank_votes = EXCLUDED.blank_votes,
			challenged_votes = EXCLUDED.challenged_votes,
			deferred_votes = EXCLUDED.deferred_votes,
			notes = EXCLUDED.notes,
			operator_id = EXCLUDED.operator_id,
			submitted_at = EXCLUDED.submitted_at
	`
	_, err = tx.ExecContext(ctx, upsert,
		rec.TableNumber, rec.ElectorsVoted, rec.EnvelopesReceived, rec.Difference,
		rec.BlankVotes, rec.ChallengedVotes, rec.DeferredVotes, rec.Notes,
		rec.OperatorID, rec.SubmittedAt,
	)
	if err != nil {
		return wrapConflict("failed to upsert acta", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_lines WHERE table_number = $1`, rec.TableNumber); err != nil {
		return wrapConflict("failed to delete prior vote lines", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vote_lines (table_number, list_id, count) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("failed to prepare vote line statement: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err := stmt.ExecContext(ctx, line.TableNumber, line.ListID, line.Count); err != nil {
			return wrapConflict("failed to insert vote line", err)
		}
	}

	update := `
		UPDATE polling_tables
		SET status = $2, submitted_at = $3, submitted_by = $4
		WHERE number = $1
	`
	if _, err := tx.ExecContext(ctx, update, rec.TableNumber, domain.StatusSubmitted, rec.SubmittedAt, rec.OperatorID); err != nil {
		return wrapConflict("failed to update table status", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapConflict("failed to commit transaction", err)
	}

	return nil
}

func (r *tallyRepository) GetActa(ctx context.Context, tableNumber int) (*domain.TallyRecord, error) {
	query := `
		SELECT table_number, electors_voted, envelopes_received, difference,
		       blank_votes, challenged_votes, deferred_votes, notes,
		       operator_id, submitted_at
		FROM tally_records
		WHERE table_number = $1
	`
	var rec domain.TallyRecord
	err := r.db.QueryRowContext(ctx, query, tableNumber).Scan(
		&rec.TableNumber, &rec.ElectorsVoted, &rec.EnvelopesReceived, &rec.Difference,
		&rec.BlankVotes, &rec.ChallengedVotes, &rec.DeferredVotes, &rec.Notes,
		&rec.OperatorID, &rec.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActaNotFound
		}
		return nil, fmt.Errorf("failed to get acta: %w", err)
	}
	return &rec, nil
}

func (r *tallyRepository) ListVotesForTable(ctx context.Context, tableNumber int) ([]domain.VoteLine, error) {
	query := `
		SELECT v.table_number, v.list_id, v.count
		FROM vote_lines v
		JOIN candidate_lists l ON l.id = v.list_id
		WHERE v.table_number = $1
		ORDER BY l.category ASC, l.rank ASC
	`
	rows, err := r.db.QueryContext(ctx, query, tableNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list vote lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.VoteLine
	for rows.Next() {
		var line domain.VoteLine
		if err := rows.Scan(&line.TableNumber, &line.ListID, &line.Count); err != nil {
			return nil, fmt.Errorf("failed to scan vote line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote lines: %w", err)
	}
	return lines, nil
}

// wrapConflict translates postgres lock/serialization failures into the
// retryable domain conflict error; anything else stays an infra error.
func wrapConflict(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "55P03", // lock_not_available
			"40001", // serialization_failure
			"40P01": // deadlock_detected
			return fmt.Errorf("%s: %w", msg, domain.ErrWriteConflict)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

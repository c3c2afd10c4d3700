package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

type OperatorRepository struct {
	db *sql.DB
}

func NewOperatorRepository(db *sql.DB) ports.OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	query := `SELECT id, email, name, role, password_hash, created_at FROM operators WHERE email = $1`
	op := &domain.Operator{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&op.ID, &op.Email, &op.Name, &op.Role, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	return op, nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	query := `SELECT id, email, name, role, password_hash, created_at FROM operators WHERE id = $1`
	op := &domain.Operator{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&op.ID, &op.Email, &op.Name, &op.Role, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	return op, nil
}

func (r *OperatorRepository) Create(ctx context.Context, op *domain.Operator) error {
	query := `
		INSERT INTO operators (id, email, name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, op.ID, op.Email, op.Name, op.Role, op.PasswordHash).Scan(&op.CreatedAt)
}

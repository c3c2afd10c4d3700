package ports

import (
	"context"

	"github.com/vncsmyrnk/tally/internal/core/domain"
)

type OperatorRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	Create(ctx context.Context, op *domain.Operator) error
}

type AuthService interface {
	// Login returns a signed access token for valid credentials.
	Login(ctx context.Context, email, password string) (string, *domain.Operator, error)
}

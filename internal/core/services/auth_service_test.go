package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/tally/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/tally/internal/core/domain"
)

func seedTestOperator(store *memory.Store) domain.Operator {
	op := domain.Operator{
		ID:           uuid.New(),
		Email:        "operator@example.com",
		Name:         "Test Operator",
		Role:         domain.RoleOperator,
		PasswordHash: HashPassword("secret123"),
	}
	store.SeedOperator(op)
	return op
}

func TestLogin(t *testing.T) {
	store := memory.NewStore()
	op := seedTestOperator(store)
	service := NewAuthService(store, []byte("test-secret"), time.Hour)

	token, got, err := service.Login(context.Background(), op.Email, "secret123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, op.ID, got.ID)
	assert.Equal(t, op.Email, got.Email)

	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, op.ID.String(), claims["sub"])
	assert.Equal(t, string(domain.RoleOperator), claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	store := memory.NewStore()
	op := seedTestOperator(store)
	service := NewAuthService(store, []byte("test-secret"), time.Hour)

	_, _, err := service.Login(context.Background(), op.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	store := memory.NewStore()
	service := NewAuthService(store, []byte("test-secret"), time.Hour)

	_, _, err := service.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

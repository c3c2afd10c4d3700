package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/ports"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	operatorRepo ports.OperatorRepository
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthService(operatorRepo ports.OperatorRepository, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Operator, error) {
	op, err := s.operatorRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrOperatorNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get operator: %w", err)
	}

	hash := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(op.PasswordHash)) != 1 {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(op)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, op, nil
}

func (s *AuthService) generateAccessToken(op *domain.Operator) (string, error) {
	claims := jwt.MapClaims{
		"sub":   op.ID.String(),
		"email": op.Email,
		"role":  string(op.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

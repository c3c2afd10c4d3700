package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func seedTables(t *testing.T, db *sql.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := db.Exec(
			"INSERT INTO polling_tables (number, location, status) VALUES ($1, $2, $3)",
			i, fmt.Sprintf("Mesa %d", i), domain.StatusPending,
		)
		require.NoError(t, err)
	}
}

func seedLists(t *testing.T, db *sql.DB) {
	t.Helper()
	lists := []struct {
		name     string
		category domain.Category
		rank     int
	}{
		{"LISTA A", domain.CategoryLocal, 1},
		{"LISTA B", domain.CategoryLocal, 2},
		{"LISTA A", domain.CategoryProvincial, 1},
		{"LISTA B", domain.CategoryProvincial, 2},
	}
	for _, l := range lists {
		_, err := db.Exec(
			"INSERT INTO candidate_lists (name, category, rank, active) VALUES ($1, $2, $3, TRUE)",
			l.name, l.category, l.rank,
		)
		require.NoError(t, err)
	}
}

func createOperatorAndToken(t *testing.T, db *sql.DB, role domain.Role) string {
	t.Helper()

	operatorID := uuid.New()
	email := fmt.Sprintf("operator-%s@example.com", operatorID)
	name := fmt.Sprintf("Operator %s", operatorID)
	_, err := db.Exec(
		"INSERT INTO operators (id, email, name, role, password_hash) VALUES ($1, $2, $3, $4, $5)",
		operatorID, email, name, role, services.HashPassword("secret123"),
	)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   operatorID.String(),
		"email": email,
		"role":  string(role),
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signedToken
}

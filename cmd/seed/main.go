// Seeds the full election universe: every polling table, the candidate
// list catalog, system configuration and a default admin operator. Safe
// to re-run; every statement upserts.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/tally/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/tally/internal/config"
	"github.com/vncsmyrnk/tally/internal/core/domain"
	"github.com/vncsmyrnk/tally/internal/core/services"
)

const (
	regularTables  = 277
	overseasTables = 3
)

var localLists = []string{
	"FUERZA PATRIA",
	"POTENCIA",
	"FTE DE IZQ. Y DE TRABAJADORES - UNIDAD",
	"LA LIBERTAD AVANZA",
	"UNION LIBERAL",
	"ESP. ABIERTO PARA EL DES. Y LA INT. SOCIAL",
	"POLITICA OBRERA",
	"PARTIDO LIBERTARIO",
	"IDEAR PERGAMINO",
}

var provincialLists = []string{
	"FUERZA PATRIA",
	"POTENCIA",
	"ES CON VOS ES CON NOSOTROS",
	"FTE DE IZQ. Y DE TRABAJADORES - UNIDAD",
	"LA LIBERTAD AVANZA",
	"UNION Y LIBERTAD",
	"UNION LIBERAL",
	"ESP. ABIERTO PARA EL DES. Y LA INT. SOCIAL",
	"MOVIMIENTO AVANZADA SOCIALISTA",
	"FRENTE PATRIOTA FEDERAL",
	"POLITICA OBRERA",
	"PARTIDO TIEMPO DE TODOS",
	"CONSTRUYENDO PORVENIR",
	"PARTIDO LIBERTARIO",
	"VALORES REPUBLICANOS",
}

var systemConfig = map[string]string{
	"ELECTION_NAME":                       "Elecciones Provinciales 2025",
	"ELECTION_DATE":                       "2025-10-27",
	"MUNICIPALITY":                        "Pergamino",
	"PROVINCE":                            "Buenos Aires",
	services.ConfigKeyEstimatedElectorate: "93000",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := seedTables(ctx, db); err != nil {
		log.Fatalf("Error seeding tables: %v", err)
	}
	log.Printf("Seeded %d polling tables", regularTables+overseasTables)

	if err := seedLists(ctx, db); err != nil {
		log.Fatalf("Error seeding candidate lists: %v", err)
	}
	log.Printf("Seeded %d local and %d provincial lists", len(localLists), len(provincialLists))

	configRepo := postgres.NewConfigRepository(db)
	for key, value := range systemConfig {
		if err := configRepo.Set(ctx, key, value); err != nil {
			log.Fatalf("Error seeding config: %v", err)
		}
	}
	log.Println("Seeded system config")

	if err := seedAdmin(ctx, db); err != nil {
		log.Fatalf("Error seeding admin operator: %v", err)
	}

	log.Println("Seed completed successfully.")
}

func seedTables(ctx context.Context, db *sql.DB) error {
	query := `
		INSERT INTO polling_tables (number, location, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (number) DO NOTHING
	`
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare table statement: %w", err)
	}
	defer stmt.Close()

	for i := 1; i <= regularTables; i++ {
		location := fmt.Sprintf("Mesa %d - Pergamino", i)
		if _, err := stmt.ExecContext(ctx, i, location, domain.StatusPending); err != nil {
			return fmt.Errorf("failed to insert table %d: %w", i, err)
		}
	}
	for i := regularTables + 1; i <= regularTables+overseasTables; i++ {
		location := fmt.Sprintf("Mesa %d - Extranjeros", i)
		if _, err := stmt.ExecContext(ctx, i, location, domain.StatusPending); err != nil {
			return fmt.Errorf("failed to insert table %d: %w", i, err)
		}
	}
	return nil
}

func seedLists(ctx context.Context, db *sql.DB) error {
	query := `
		INSERT INTO candidate_lists (name, category, rank, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (name, category) DO NOTHING
	`
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}
	defer stmt.Close()

	for i, name := range localLists {
		if _, err := stmt.ExecContext(ctx, name, domain.CategoryLocal, i+1); err != nil {
			return fmt.Errorf("failed to insert local list %q: %w", name, err)
		}
	}
	for i, name := range provincialLists {
		if _, err := stmt.ExecContext(ctx, name, domain.CategoryProvincial, i+1); err != nil {
			return fmt.Errorf("failed to insert provincial list %q: %w", name, err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB) error {
	query := `
		INSERT INTO operators (id, email, name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := db.ExecContext(ctx, query,
		uuid.New(),
		"admin@pergamino.gov.ar",
		"Administrador del Sistema",
		domain.RoleAdmin,
		services.HashPassword("admin123"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert admin operator: %w", err)
	}
	log.Println("Seeded admin operator (admin@pergamino.gov.ar / admin123)")
	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/tally/internal/adapters/handler/http"
	"github.com/vncsmyrnk/tally/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/tally/internal/config"
	"github.com/vncsmyrnk/tally/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	tableRepo := postgres.NewTableRepository(db)
	listRepo := postgres.NewListRepository(db)
	tallyRepo := postgres.NewTallyRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	configRepo := postgres.NewConfigRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	rules := cfg.Rules()
	tallyService := services.NewTallyService(tableRepo, listRepo, tallyRepo, rules)
	tableService := services.NewTableService(tableRepo, listRepo, tallyRepo, rules)
	aggregationService := services.NewAggregationService(tableRepo, listRepo, resultRepo, configRepo)
	catalogService := services.NewCatalogService(listRepo)
	authService := services.NewAuthService(operatorRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)

	handler := http.NewHandler(http.Handlers{
		Auth:    http.NewAuthHandler(authService),
		Tally:   http.NewTallyHandler(tallyService),
		Table:   http.NewTableHandler(tableService),
		Results: http.NewResultsHandler(aggregationService),
		Catalog: http.NewCatalogHandler(catalogService),
	}, []byte(cfg.JWTSecret))

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"designlift/internal/bootstrap"
	"designlift/internal/config"
	server "designlift/internal/http"
	"designlift/internal/jobs"
	"designlift/internal/migrate"
	"designlift/internal/services"
	"designlift/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	migrationsDir := flag.String("migrations", migrate.DefaultDir, "path to SQL migrations")
	flag.Parse()

	cfg := config.Load(*configPath)

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The database is optional: without it runs are not recorded and
	// retention is off.
	var st *store.Store
	if cfg.Database.DSN != "" {
		// Run migrations on a short-lived connection
		if err := migrate.Run(cfg.Database.DSN, *migrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}

		// Create a shared *sql.DB with pooling for the Store
		db, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			log.Fatalf("open db failed: %v", err)
		}
		// Basic pool settings; adjust as needed
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		defer db.Close()

		st = store.New(db)
	} else {
		logger.Warn("no database configured, extraction records are not persisted")
	}

	comp := bootstrap.NewComponents(cfg, logger)

	deps := server.Deps{}
	var rec services.Recorder
	if st != nil {
		rec = st
		deps.Records = st
	}
	if comp.Assets != nil {
		deps.Assets = comp.Assets
	}
	deps.Extraction = comp.NewExtractionService(rec)

	if st != nil {
		var cleaner jobs.AssetCleaner
		if comp.Assets != nil {
			cleaner = comp.Assets
		}
		go jobs.NewRunner(cfg.Retention, st, cleaner, logger).Start(rootCtx)
	}

	s := server.NewServer(cfg, deps, logger)
	go func() {
		<-rootCtx.Done()
		if err := s.Shutdown(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("designlift api listening", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := s.Listen(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

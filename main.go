package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"popcorn/config"
	"popcorn/database"
	"popcorn/handlers"
	"popcorn/services"
	"popcorn/shared/logger"
	"popcorn/shared/server"
	"popcorn/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.Debug)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("Using the default SESSION_SECRET", "env", cfg.Environment)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}
	defer closeStore()

	policy, err := services.ParseDuplicatePolicy(cfg.WatchedDuplicates)
	if err != nil {
		log.Fatal("Invalid duplicate policy:", err)
	}

	omdb := services.NewOMDbClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, nil)
	workspaces := services.NewWorkspaces(omdb, services.NewWatchedRepository(store), policy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workspaces.StartSweeper(ctx, sweepInterval(cfg.WorkspaceIdleTTL), cfg.WorkspaceIdleTTL)

	sessions, err := services.NewSessions(cfg.SessionSecret, cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to initialize sessions:", err)
	}
	csrfKey, err := services.DeriveKey(cfg.SessionSecret, "csrf")
	if err != nil {
		log.Fatal("Failed to derive CSRF key:", err)
	}

	router := handlers.NewRouter(handlers.Deps{
		Source:     omdb,
		Sessions:   sessions,
		Workspaces: workspaces,
		CSRFKey:    csrfKey,
		Secure:     cfg.IsProduction(),
	})

	srvCfg := server.DefaultConfig(":" + cfg.ServerPort)
	srv := server.CreateServer(srvCfg, router)

	log.Printf("=========================================")
	log.Printf("Popcorn is starting on %s", srvCfg.Addr)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Storage: %s", cfg.StorageBackend)
	log.Printf("Debug Mode: %v", cfg.Debug)
	log.Printf("=========================================")

	if err := server.ListenAndServe(srvCfg, srv); err != nil && err != http.ErrServerClosed {
		log.Fatalf("FATAL: Server failed to start: %v", err)
	}
}

// openStore builds the key/value store selected by STORAGE_BACKEND. The
// returned func releases it.
func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), func() {}, nil
	case config.BackendSQLite:
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlStore(db, database.DriverSQLite, storage.SQLite)
	case config.BackendPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return sqlStore(db, database.DriverPostgres, storage.Postgres)
	default:
		fs, err := storage.NewFileStore(filepath.Join(cfg.DataDir, "watched"))
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func sqlStore(db *sql.DB, driver string, dialect storage.Dialect) (storage.Store, func(), error) {
	if err := database.RunMigrations(db, driver); err != nil {
		db.Close()
		return nil, nil, err
	}
	return storage.NewSQLStore(db, dialect), func() { db.Close() }, nil
}

// sweepInterval checks for idle workspaces a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d >= time.Minute {
		return d
	}
	return time.Minute
}

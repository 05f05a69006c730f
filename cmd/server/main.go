package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scribe/internal/auth"
	"scribe/internal/config"
	"scribe/internal/handler"
	"scribe/internal/kinds"
	"scribe/internal/middleware"
	"scribe/internal/repository/postgres"
	"scribe/internal/repository/postgres/migrations"
	postgresWorkspace "scribe/internal/repository/postgres/workspace"
	"scribe/internal/scheduler"
	"scribe/internal/service/workspace"
	"scribe/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier backed by the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Apply pending migrations before opening the pool
	if err := migrations.Up(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	// Blob store: S3 when configured, memory otherwise (dev convenience)
	var blobs storage.BlobStore
	if cfg.S3Bucket != "" {
		blobs, err = storage.NewS3BlobStore(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 blob store: %v", err)
		}
	} else {
		logger.Warn("S3_BUCKET not set, using in-memory blob store")
		blobs = storage.NewMemoryBlobStore()
	}

	registry, err := kinds.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load kind registry: %v", err)
	}

	attachmentRepo := postgresWorkspace.NewAttachmentRepository(repoConfig)
	settingsRepo := postgres.NewSettingsRepository(repoConfig)

	// One lifecycle engine per kind, each bound to its own tables
	engines := make(map[string]*workspace.Service)
	for _, kind := range registry.All() {
		folderRepo := postgresWorkspace.NewFolderRepository(repoConfig, tables.Table(kind.FolderTable))
		resourceRepo := postgresWorkspace.NewResourceRepository(repoConfig, tables.Table(kind.ResourceTable))
		engines[kind.Name] = workspace.NewService(kind, folderRepo, resourceRepo, attachmentRepo, blobs, logger)
	}

	engineList := make([]*workspace.Service, 0, len(engines))
	for _, kind := range registry.All() {
		engineList = append(engineList, engines[kind.Name])
	}
	sweeper := workspace.NewSweeper(settingsRepo, engineList, logger)

	sweepScheduler := scheduler.New(sweeper, cfg.SweepInterval, logger)
	sweepScheduler.Start()
	defer sweepScheduler.Stop()

	logger.Info("services initialized", "kinds", len(engines))

	folderHandler := handler.NewFolderHandler(engines, logger)
	retentionHandler := handler.NewRetentionHandler(sweeper, logger)

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", folderHandler.HealthCheck)

	// Folder lifecycle routes, one set per kind
	mux.HandleFunc("POST /api/{kind}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/{kind}/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/{kind}/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/{kind}/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/{kind}/folders/{id}", folderHandler.SoftDeleteFolder)
	mux.HandleFunc("POST /api/{kind}/folders/{id}/share", folderHandler.ShareFolder)
	mux.HandleFunc("POST /api/{kind}/folders/{id}/unshare", folderHandler.UnshareFolder)
	mux.HandleFunc("POST /api/{kind}/folders/{id}/move", folderHandler.MoveFolder)
	mux.HandleFunc("POST /api/{kind}/folders/{id}/restore", folderHandler.RestoreFolder)
	mux.HandleFunc("DELETE /api/{kind}/folders/{id}/permanent", folderHandler.PermanentDeleteFolder)
	mux.HandleFunc("POST /api/{kind}/folders/{id}/visibility", folderHandler.CascadeVisibility)

	// Retention settings
	mux.HandleFunc("GET /api/settings/retention", retentionHandler.GetRetention)
	mux.HandleFunc("PUT /api/settings/retention", retentionHandler.SetRetention)

	// Manual sweep trigger, a debug convenience
	if cfg.Debug {
		mux.HandleFunc("POST /api/admin/trash/sweep", retentionHandler.TriggerSweep)
		logger.Warn("Debug route registered: POST /api/admin/trash/sweep (manual retention sweep)")
	}

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM so the sweeper stops too
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

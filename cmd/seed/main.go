package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"scribe/internal/config"
	"scribe/internal/kinds"
	"scribe/internal/repository/postgres"
	"scribe/internal/repository/postgres/migrations"
	postgresWorkspace "scribe/internal/repository/postgres/workspace"
	"scribe/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	schemaOnly := flag.Bool("schema-only", false, "Only run migrations, don't seed demo data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: demo data never belongs in production
	if cfg.Environment == "prod" && !*schemaOnly {
		log.Fatalf("🚫 BLOCKED: Cannot seed demo data in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	log.Println("📋 Ensuring database schema is up to date...")
	if err := migrations.Up(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	registry, err := kinds.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load kind registry: %v", err)
	}

	repos := make(map[string]seed.KindRepos)
	for _, kind := range registry.All() {
		repos[kind.Name] = seed.KindRepos{
			Folders:   postgresWorkspace.NewFolderRepository(repoConfig, tables.Table(kind.FolderTable)),
			Resources: postgresWorkspace.NewResourceRepository(repoConfig, tables.Table(kind.ResourceTable)),
		}
	}

	fixture, err := seed.Load()
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	// Apply atomically so a half-seeded database never survives a failure
	txManager := postgres.NewTransactionManager(pool)
	err = txManager.ExecTx(ctx, func(ctx context.Context) error {
		return seed.Apply(ctx, repos, fixture, logger)
	})
	if err != nil {
		log.Fatalf("Failed to apply fixture: %v", err)
	}

	log.Println("✅ Seeding complete")
}

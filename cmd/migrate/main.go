package main

// Run database migrations:
//   go run ./cmd/migrate          apply pending migrations
//   go run ./cmd/migrate down     roll back the latest migration
//   go run ./cmd/migrate version  print the applied version

import (
	"context"
	"log"
	"os"

	"ragebait-resume/internal/shared/config"
	"ragebait-resume/internal/shared/storage/db"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(1)
	}
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	var version int64
	switch cmd {
	case "version":
		version, err = db.SchemaVersion(ctx, sqlDB)
	default:
		version, err = db.Migrate(ctx, sqlDB, db.Direction(cmd))
	}
	if err != nil {
		log.Printf("migrate %s: %v", cmd, err)
		os.Exit(1)
	}
	log.Printf("schema version %d", version)
}

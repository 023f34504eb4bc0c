package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"ragebait-resume/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// Direction selects how Migrate moves the schema.
type Direction string

const (
	MigrateUp   Direction = "up"
	MigrateDown Direction = "down"
)

var (
	gooseOnce sync.Once
	gooseErr  error
)

func setupGoose() error {
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrationFiles)
		goose.SetLogger(gooseLogger{})
		gooseErr = goose.SetDialect("postgres")
	})
	return gooseErr
}

// RunMigrations applies every pending migration. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	_, err := Migrate(ctx, database, MigrateUp)
	return err
}

// Migrate applies all pending migrations (up) or rolls back the latest one
// (down), and returns the schema version afterwards.
func Migrate(ctx context.Context, database *sql.DB, dir Direction) (int64, error) {
	if dir != MigrateUp && dir != MigrateDown {
		return 0, fmt.Errorf("unknown migration direction %q", dir)
	}
	if database == nil {
		return 0, nil
	}
	if err := setupGoose(); err != nil {
		return 0, fmt.Errorf("goose dialect: %w", err)
	}

	from, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dir == MigrateUp {
		err = goose.UpContext(ctx, database, migrationsDir)
	} else {
		err = goose.DownContext(ctx, database, migrationsDir)
	}
	if err != nil {
		return from, fmt.Errorf("migrate %s: %w", dir, err)
	}
	to, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return from, fmt.Errorf("read schema version: %w", err)
	}
	telemetry.Info("db.migrated", map[string]any{
		"direction": string(dir),
		"from":      from,
		"to":        to,
	})
	return to, nil
}

// SchemaVersion reports the latest applied migration.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if database == nil {
		return 0, nil
	}
	if err := setupGoose(); err != nil {
		return 0, fmt.Errorf("goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, database)
}

// gooseLogger routes goose output through telemetry.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Debug("db.goose", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	telemetry.Error("db.goose", map[string]any{"detail": msg})
	panic(msg)
}

// Package migrations embeds the schema for each supported database and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Seams for testing the goose commands.
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseDownContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.DownContext(ctx, db, dir, opts...)
	}
	gooseStatusContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.StatusContext(ctx, db, dir, opts...)
	}
)

// Up applies all pending migrations for driver.
// goose keeps package-level state, so calls must not run concurrently.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := prepare(driver, goose.NopLogger())
	if err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}

// Down rolls back the most recently applied migration.
func Down(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := prepare(driver, goose.NopLogger())
	if err != nil {
		return err
	}
	return gooseDownContext(ctx, db, dir)
}

// Status writes one line per migration with its applied time, or Pending.
func Status(ctx context.Context, db *sql.DB, driver string, out io.Writer) error {
	dir, err := prepare(driver, log.New(out, "", 0))
	if err != nil {
		return err
	}
	return gooseStatusContext(ctx, db, dir)
}

func prepare(driver string, lg goose.Logger) (string, error) {
	dialect, dir, err := resolve(driver)
	if err != nil {
		return "", err
	}

	goose.SetBaseFS(files)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("goose dialect: %w", err)
	}
	goose.SetLogger(lg)
	return dir, nil
}

func resolve(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverPostgres:
		return "postgres", "postgres", nil
	case DriverSQLite:
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported db driver %q", driver)
	}
}

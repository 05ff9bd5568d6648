// Package migrations embeds the goose SQL migrations for the session store.
package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Run executes a goose command (up, down, status, version, redo, ...)
// against the embedded migrations.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, db, ".", args...)
}

func setup() error {
	goose.SetBaseFS(FS)
	return goose.SetDialect("postgres")
}

// Command migrate runs the embedded session-store migrations via goose.
//
// Usage:
//
//	go run ./cmd/migrate up            # Apply all pending migrations
//	go run ./cmd/migrate down          # Roll back the last migration
//	go run ./cmd/migrate status        # Show migration status
//	go run ./cmd/migrate version       # Show current schema version
//	go run ./cmd/migrate redo          # Roll back and re-apply last migration
//	go run ./cmd/migrate up-to 1       # Migrate up to a specific version
//	go run ./cmd/migrate down-to 0     # Roll back to a specific version
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/retry"
	"github.com/mbd888/peerpay/migrations"
	"github.com/spf13/cobra"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PeerPay session store schema",
	Long: `Apply or roll back the SQL migrations embedded in the binary.

The database is taken from --database-url or DATABASE_URL.`,
	SilenceUsage: true,
}

// goose commands that take no arguments
var plainCommands = []struct {
	name  string
	short string
}{
	{"up", "Apply all pending migrations"},
	{"down", "Roll back the last migration"},
	{"status", "Show migration status"},
	{"version", "Show current schema version"},
	{"redo", "Roll back and re-apply the last migration"},
	{"reset", "Roll back every migration"},
}

// goose commands that take a target version
var versionCommands = []struct {
	name  string
	short string
}{
	{"up-to", "Migrate up to a specific version"},
	{"down-to", "Roll back to a specific version"},
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")

	for _, c := range plainCommands {
		rootCmd.AddCommand(&cobra.Command{
			Use:   c.name,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE:  runGoose(c.name),
		})
	}
	for _, c := range versionCommands {
		rootCmd.AddCommand(&cobra.Command{
			Use:   c.name + " <version>",
			Short: c.short,
			Args:  cobra.ExactArgs(1),
			RunE:  runGoose(c.name),
		})
	}
}

func runGoose(command string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			return fmt.Errorf("DATABASE_URL or --database-url is required")
		}

		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		ctx := cmd.Context()
		if err := retry.Do(ctx, retry.Startup, "database.ping", db.PingContext); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := migrations.Run(ctx, db, command, args...); err != nil {
			return fmt.Errorf("migration %s failed: %w", command, err)
		}
		return nil
	}
}

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"), "text")
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

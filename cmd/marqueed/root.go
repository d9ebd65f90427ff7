package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/marquee/internal/server"
)

// dbFlags are shared by every subcommand that opens the repository.
type dbFlags struct {
	driver string
	dsn    string
}

// envFlags maps flag names to the environment variables that fill them
// when the flag is not given on the command line.
var envFlags = map[string]string{
	"addr": "MARQUEED_ADDR",
	"db":   "MARQUEED_DB",
	"dsn":  "MARQUEED_DSN",
	"seed": "MARQUEED_SEED",
}

func newRootCmd() *cobra.Command {
	var db dbFlags

	cmd := &cobra.Command{
		Use:   "marqueed",
		Short: "Catalog REST API for the marquee terminal client",
		Long: `marqueed serves the movie and series catalog over a small REST API.

Records live in memory, SQLite or PostgreSQL. Flags can also be set
through MARQUEED_* environment variables or a .env file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return bindEnv(cmd.Flags())
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&db.driver, "db", "sqlite", "Storage backend: memory, sqlite or postgres")
	cmd.PersistentFlags().StringVar(&db.dsn, "dsn", "marquee.db", "SQLite file path or PostgreSQL connection string")

	cmd.AddCommand(newServeCmd(&db))
	cmd.AddCommand(newSeedCmd(&db))

	return cmd
}

// bindEnv copies MARQUEED_* variables into flags the user did not set.
func bindEnv(flags *pflag.FlagSet) error {
	for name, env := range envFlags {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		value, ok := os.LookupEnv(env)
		if !ok || value == "" {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("apply %s: %w", env, err)
		}
	}
	return nil
}

// openRepository opens the configured storage backend.
func openRepository(ctx context.Context, db dbFlags) (server.Repository, error) {
	switch db.driver {
	case "memory":
		return server.NewMemoryRepository(), nil
	case server.DialectSQLite, server.DialectPostgres:
		repo, err := server.OpenSQL(ctx, db.driver, db.dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", db.driver)
	}
}

func logSeedResult(res server.SeedResult) {
	slog.Info("Seed complete", "inserted", res.Inserted, "skipped", len(res.Skipped))
	for _, skip := range res.Skipped {
		slog.Warn("Skipped invalid seed record", "index", skip.Index, "title", skip.Title, "errors", skip.Errors.Summary())
	}
}

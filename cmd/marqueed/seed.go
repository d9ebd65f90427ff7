package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/server"
)

func newSeedCmd(db *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed FILE",
		Short: "Insert records from a YAML seed file",
		Long: `Validates every record in FILE and inserts the valid ones.
Invalid records are reported and skipped.`,
		Example: `  marqueed seed testdata/seed.yaml
  marqueed seed --db postgres --dsn "$DATABASE_URL" catalog.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			drafts, err := server.LoadSeed(args[0])
			if err != nil {
				return err
			}

			repo, err := openRepository(ctx, *db)
			if err != nil {
				return err
			}
			defer repo.Close()

			res, err := server.Seed(ctx, repo, drafts, time.Now())
			if err != nil {
				return err
			}
			logSeedResult(res)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, skipped %d\n", res.Inserted, len(res.Skipped))
			return nil
		},
	}
	return cmd
}

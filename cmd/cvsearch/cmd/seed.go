package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talenthive/cvsearch/internal/corpus"
)

func newSeedCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo applicant database",
		Long: `Seed writes a small set of sample applicants into the database so
search can be tried without importing real data. Existing applicants
with the same IDs are overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Corpus.Path
			}

			store, err := corpus.Open(dbPath, cfg.Corpus.CacheSize)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Seed(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d applicants into %s\n",
				len(corpus.SampleApplicants()), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the applicant database (default from config)")
	return cmd
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talenthive/cvsearch/internal/corpus"
)

func newStatsCmd() *cobra.Command {
	var (
		dbPath string
		format string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus and configuration statistics",
		Args:  cobra.NoArgs,
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

			stats := struct {
				Database  string `json:"database"`
				Documents int    `json:"documents"`
				Algorithm string `json:"algorithm"`
				Parallel  bool   `json:"parallel"`
				PoolSize  int    `json:"pool_size"`
			}{
				Database:  dbPath,
				Documents: store.Len(),
				Algorithm: cfg.Search.Algorithm,
				Parallel:  cfg.Search.Parallel,
				PoolSize:  cfg.Workers.PoolSize,
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database:   %s\n", stats.Database)
			fmt.Fprintf(out, "Documents:  %d\n", stats.Documents)
			fmt.Fprintf(out, "Algorithm:  %s\n", stats.Algorithm)
			fmt.Fprintf(out, "Parallel:   %v\n", stats.Parallel)
			if stats.PoolSize > 0 {
				fmt.Fprintf(out, "Pool size:  %d\n", stats.PoolSize)
			} else {
				fmt.Fprintln(out, "Pool size:  auto")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the applicant database (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}

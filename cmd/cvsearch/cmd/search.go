package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/talenthive/cvsearch/internal/corpus"
	"github.com/talenthive/cvsearch/internal/match"
	"github.com/talenthive/cvsearch/internal/search"
	"github.com/talenthive/cvsearch/internal/telemetry"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	algorithm string
	limit     int
	parallel  bool
	format    string // "text", "json"
	dbPath    string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <keyword>...",
		Short: "Search the CV corpus for keywords",
		Long: `Search the CV corpus for one or more keywords.

Each keyword is matched exactly first; keywords with no exact hit
anywhere are retried with fuzzy matching against documents that have no
exact results. Documents are ranked by total occurrence count plus
fuzzy similarity.

Examples:
  cvsearch search python kubernetes
  cvsearch search "machine learning" --algorithm AC
  cvsearch search go --limit 5 --format json
  cvsearch search terraform --parallel`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "Exact-match algorithm: KMP, BM, or AC")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (0 = config default)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Search with the worker pool")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Path to the applicant database (default from config)")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, keywords []string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	algName := cfg.Search.Algorithm
	if opts.algorithm != "" {
		algName = opts.algorithm
	}
	alg, err := match.ParseAlgorithm(algName)
	if err != nil {
		return err
	}

	dbPath := cfg.Corpus.Path
	if opts.dbPath != "" {
		dbPath = opts.dbPath
	}

	store, err := corpus.Open(dbPath, cfg.Corpus.CacheSize)
	if err != nil {
		return err
	}
	defer store.Close()

	slog.Info("search started",
		slog.String("keywords", strings.Join(keywords, " ")),
		slog.String("algorithm", alg.String()),
		slog.Bool("parallel", opts.parallel || cfg.Search.Parallel))

	metrics := telemetry.New()
	engine := search.NewEngine(store, cfg, search.WithMetrics(metrics))
	results, err := engine.Search(ctx, search.Request{
		Keywords:   keywords,
		Algorithm:  alg,
		MaxResults: opts.limit,
		Parallel:   opts.parallel || cfg.Search.Parallel,
	})
	if err != nil {
		return err
	}

	snap := metrics.Snapshot()
	slog.Debug("query telemetry",
		slog.Int64("total_queries", snap.TotalQueries),
		slog.Int64("zero_result", snap.ZeroResultCount),
		slog.Int64("pool_fallbacks", snap.PoolFallbacks))

	switch opts.format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		printResults(cmd, results)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}
}

func printResults(cmd *cobra.Command, results *search.Results) {
	out := cmd.OutOrStdout()

	if len(results.Documents) == 0 {
		fmt.Fprintln(out, "No matches.")
		return
	}

	fmt.Fprintf(out, "%d document(s) in %s:\n\n", len(results.Documents), results.Stats.Total.Round(time.Microsecond))

	for i, doc := range results.Documents {
		fmt.Fprintf(out, "%2d. applicant %d  (score %.2f)\n", i+1, doc.DocumentID, doc.Score)

		for _, kw := range sortedKeys(doc.Exact) {
			fmt.Fprintf(out, "      %s: %d exact\n", kw, doc.Exact[kw])
		}
		for _, kw := range sortedKeys(doc.Fuzzy) {
			hit := doc.Fuzzy[kw]
			fmt.Fprintf(out, "      %s: ~%q (%.0f%%)\n", kw, hit.Matched, hit.Similarity*100)
		}
	}

	if results.Stats.PoolFallback {
		fmt.Fprintln(out, "\nnote: worker pool unavailable, searched sequentially")
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

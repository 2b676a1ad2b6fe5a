// Package search implements the two-phase keyword search over the CV
// corpus: an exact phase that counts keyword occurrences per document,
// and a fuzzy phase that rescues keywords no document matched exactly.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talenthive/cvsearch/internal/config"
	"github.com/talenthive/cvsearch/internal/corpus"
	cverr "github.com/talenthive/cvsearch/internal/errors"
	"github.com/talenthive/cvsearch/internal/fuzzy"
	"github.com/talenthive/cvsearch/internal/match"
	"github.com/talenthive/cvsearch/internal/telemetry"
)

// Engine runs searches against a corpus. An Engine is safe for
// concurrent use; per-search state lives on the stack of Search.
type Engine struct {
	corpus     corpus.Corpus
	searchCfg  config.SearchConfig
	workersCfg config.WorkersConfig
	matcher    *fuzzy.Matcher
	thresholds *fuzzy.ThresholdPolicy
	logger     *slog.Logger
	metrics    *telemetry.Metrics

	probeTimeout time.Duration

	// poolFactory is replaced in tests to simulate pool failures.
	poolFactory func(size int, logger *slog.Logger) (*workerPool, error)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches a telemetry collector. Nil disables recording.
func WithMetrics(m *telemetry.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithHeuristics overrides the fuzzy-match heuristics.
func WithHeuristics(h fuzzy.Heuristics) EngineOption {
	return func(e *Engine) { e.matcher = fuzzy.NewMatcher(h) }
}

// WithThresholds overrides the similarity threshold bands.
func WithThresholds(b fuzzy.Bands) EngineOption {
	return func(e *Engine) { e.thresholds = fuzzy.NewThresholdPolicy(b) }
}

// WithPoolConfig overrides the worker pool configuration.
func WithPoolConfig(w config.WorkersConfig) EngineOption {
	return func(e *Engine) {
		e.workersCfg = w
		e.probeTimeout = parseProbeTimeout(w.ProbeTimeout)
	}
}

// NewEngine creates an engine over the given corpus, configured by cfg.
func NewEngine(c corpus.Corpus, cfg *config.Config, opts ...EngineOption) *Engine {
	e := &Engine{
		corpus:       c,
		searchCfg:    cfg.Search,
		workersCfg:   cfg.Workers,
		matcher:      fuzzy.NewMatcher(heuristicsFromConfig(cfg.Fuzzy)),
		thresholds:   fuzzy.NewThresholdPolicy(bandsFromConfig(cfg.Thresholds)),
		logger:       slog.Default(),
		probeTimeout: parseProbeTimeout(cfg.Workers.ProbeTimeout),
		poolFactory:  newWorkerPool,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func heuristicsFromConfig(f config.FuzzyConfig) fuzzy.Heuristics {
	return fuzzy.Heuristics{
		LeniencyMinLength:     f.LeniencyMinLength,
		LeniencyMinSimilarity: f.LeniencyMinSimilarity,
		LeniencyBonus:         f.LeniencyBonus,
		LeniencyCap:           f.LeniencyCap,
		LongPhraseLength:      f.LongPhraseLength,
		LongPhraseFloors:      [3]float64{f.LongPhraseFloor1, f.LongPhraseFloor2, f.LongPhraseFloor3},
		WindowSpread:          f.WindowSpread,
		EarlyExitSimilarity:   f.EarlyExitSimilarity,
	}
}

func bandsFromConfig(t config.ThresholdsConfig) fuzzy.Bands {
	return fuzzy.Bands{
		VeryShortMax: t.VeryShortMax,
		ShortMax:     t.ShortMax,
		MediumMax:    t.MediumMax,
		LongMax:      t.LongMax,
		VeryShort:    t.VeryShort,
		Short:        t.Short,
		Medium:       t.Medium,
		Long:         t.Long,
		VeryLong:     t.VeryLong,
	}
}

func parseProbeTimeout(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 3 * time.Second
	}
	return d
}

// query carries the per-search read-only state shared by all workers.
type query struct {
	keywords   []string
	alg        match.Algorithm
	ac         *match.AhoCorasick
	thresholds map[string]float64
	limit      int
}

// Search runs a query and returns ranked results. Documents holding
// exact matches are scored by total occurrence count; documents with
// none are given a fuzzy pass over the keywords that matched nowhere
// exactly, scored by summed similarity. Results are ordered by score
// descending, document ID ascending.
func (e *Engine) Search(ctx context.Context, req Request) (*Results, error) {
	start := time.Now()

	if err := validateAlgorithm(req.Algorithm); err != nil {
		return nil, err
	}
	limit, err := e.clampLimit(req.MaxResults)
	if err != nil {
		return nil, err
	}

	keywords := normalizeKeywords(req.Keywords)
	res := &Results{
		Documents: []DocumentResult{},
		Stats: Stats{
			Algorithm: req.Algorithm.String(),
			Keywords:  keywords,
		},
	}
	if len(keywords) == 0 {
		res.Stats.Total = time.Since(start)
		return res, nil
	}

	docs, err := e.corpus.Documents(ctx)
	if err != nil {
		return nil, err
	}
	res.Stats.DocumentsSearched = len(docs)

	q := &query{
		keywords:   keywords,
		alg:        req.Algorithm,
		thresholds: e.thresholds.Thresholds(keywords),
		limit:      limit,
	}
	if req.Algorithm == match.AlgorithmAhoCorasick {
		// One automaton serves every document in the query; it is
		// immutable after construction and shared across workers.
		q.ac = match.NewAhoCorasick(keywords)
	}

	var exact map[int64]map[string]int
	var approx map[int64]map[string]FuzzyMatch

	ranParallel := false
	if req.Parallel && len(docs) >= e.workersCfg.MinDocsForParallel {
		if pool, ok := e.acquirePool(res); ok {
			exact, approx = e.searchParallel(ctx, pool, docs, q, res)
			pool.release()
			ranParallel = true
			res.Stats.ParallelUsed = true
		}
	}

	if !ranParallel {
		exactStart := time.Now()
		exact = e.exactScan(ctx, docs, q)
		res.Stats.ExactPhase = time.Since(exactStart)

		fuzzyStart := time.Now()
		missing := keywordsWithoutExactHits(keywords, exact)
		approx = e.fuzzyScan(ctx, docs, missing, exact, q.thresholds)
		res.Stats.FuzzyPhase = time.Since(fuzzyStart)
	}

	res.Documents = rank(exact, approx, limit)
	res.Stats.Total = time.Since(start)

	e.record(res)

	e.logger.Debug("search completed",
		slog.Int("keywords", len(keywords)),
		slog.String("algorithm", res.Stats.Algorithm),
		slog.Int("documents", res.Stats.DocumentsSearched),
		slog.Int("results", len(res.Documents)),
		slog.Bool("parallel", res.Stats.ParallelUsed),
		slog.Duration("total", res.Stats.Total))

	return res, nil
}

func validateAlgorithm(alg match.Algorithm) error {
	switch alg {
	case match.AlgorithmKMP, match.AlgorithmBoyerMoore, match.AlgorithmAhoCorasick:
		return nil
	default:
		return cverr.New(cverr.ErrCodeInvalidAlgorithm,
			fmt.Sprintf("unknown algorithm %d", alg), nil)
	}
}

// clampLimit resolves the result limit: zero means the configured
// default, values above the cap are clamped, negatives are rejected.
func (e *Engine) clampLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, cverr.New(cverr.ErrCodeInvalidLimit,
			fmt.Sprintf("max results must be positive, got %d", limit), nil)
	}
	if limit == 0 {
		limit = e.searchCfg.MaxResults
	}
	if hard := e.searchCfg.MaxResultsCap; hard > 0 && limit > hard {
		limit = hard
	}
	if limit < 1 {
		limit = 1
	}
	return limit, nil
}

// normalizeKeywords trims, lower-cases, and de-duplicates keywords,
// preserving first-seen order.
func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// exactScan counts keyword occurrences per document. Documents with no
// hits are absent from the result.
func (e *Engine) exactScan(ctx context.Context, docs []corpus.Document, q *query) map[int64]map[string]int {
	exact := make(map[int64]map[string]int)
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		if hits := exactMatchDoc(q.alg, q.ac, doc.Text, q.keywords); len(hits) > 0 {
			exact[doc.ID] = hits
		}
	}
	return exact
}

// fuzzyScan scores the given keywords against documents without exact
// results. Acceptance is per-keyword thresholded.
func (e *Engine) fuzzyScan(ctx context.Context, docs []corpus.Document, missing []string,
	exact map[int64]map[string]int, thresholds map[string]float64) map[int64]map[string]FuzzyMatch {

	if len(missing) == 0 {
		return nil
	}

	approx := make(map[int64]map[string]FuzzyMatch)
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		if _, ok := exact[doc.ID]; ok {
			continue
		}
		if hits := e.fuzzyMatchDoc(doc.Text, missing, thresholds); len(hits) > 0 {
			approx[doc.ID] = hits
		}
	}
	return approx
}

// searchParallel partitions the corpus into chunks and runs each phase
// over the chunks through the pool, with a barrier between the phases.
// The exact phase must finish across every chunk before the fuzzy-eligible
// keyword set is computed: a keyword matched exactly in any chunk gets no
// fuzzy pass anywhere. Workers share only the read-only query state, and
// the fuzzy phase additionally reads the merged exact map, which is frozen
// at the barrier. Once enough documents hold exact matches, remaining
// exact chunks are skipped and the fuzzy phase is not run.
func (e *Engine) searchParallel(ctx context.Context, pool *workerPool, docs []corpus.Document,
	q *query, res *Results) (map[int64]map[string]int, map[int64]map[string]FuzzyMatch) {

	bounds := chunkBounds(len(docs), pool.size,
		e.workersCfg.MinChunkSize, e.workersCfg.MaxChunkSize)

	stopAt := int64(e.workersCfg.EarlyStopMultiplier * q.limit)
	var matched atomic.Int64
	var earlyStopped atomic.Bool

	var mu sync.Mutex
	exact := make(map[int64]map[string]int)

	exactStart := time.Now()
	dropped := pool.runChunks(ctx, len(bounds), func(chunk int) error {
		if stopAt > 0 && matched.Load() >= stopAt {
			earlyStopped.Store(true)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		chunkDocs := docs[bounds[chunk][0]:bounds[chunk][1]]
		localExact := e.exactScan(ctx, chunkDocs, q)

		mu.Lock()
		for id, hits := range localExact {
			exact[id] = hits
		}
		mu.Unlock()

		matched.Add(int64(len(localExact)))
		return nil
	})
	res.Stats.ExactPhase = time.Since(exactStart)

	// Early stop means the corpus was only partially scanned, so the
	// missing-keyword set would be unreliable; exact hits alone already
	// exceed the result limit.
	var approx map[int64]map[string]FuzzyMatch
	fuzzyStart := time.Now()
	if missing := keywordsWithoutExactHits(q.keywords, exact); len(missing) > 0 && !earlyStopped.Load() {
		approx = make(map[int64]map[string]FuzzyMatch)
		dropped += pool.runChunks(ctx, len(bounds), func(chunk int) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			chunkDocs := docs[bounds[chunk][0]:bounds[chunk][1]]
			localApprox := e.fuzzyScan(ctx, chunkDocs, missing, exact, q.thresholds)

			mu.Lock()
			for id, hits := range localApprox {
				approx[id] = hits
			}
			mu.Unlock()
			return nil
		})
	}
	res.Stats.FuzzyPhase = time.Since(fuzzyStart)

	res.Stats.Workers = pool.size
	res.Stats.Chunks = len(bounds)
	res.Stats.DroppedChunks = dropped
	res.Stats.EarlyStopped = earlyStopped.Load()
	return exact, approx
}

// fuzzyMatchDoc finds the best accepted approximate match per keyword.
func (e *Engine) fuzzyMatchDoc(text string, keywords []string, thresholds map[string]float64) map[string]FuzzyMatch {
	var hits map[string]FuzzyMatch
	for _, kw := range keywords {
		sim, matched := e.matcher.BestPhraseMatch(kw, text)
		if sim <= 0 || sim < thresholds[kw] {
			continue
		}
		if hits == nil {
			hits = make(map[string]FuzzyMatch)
		}
		hits[kw] = FuzzyMatch{Matched: matched, Similarity: sim}
	}
	return hits
}

// exactMatchDoc counts keyword occurrences in one document.
func exactMatchDoc(alg match.Algorithm, ac *match.AhoCorasick, text string, keywords []string) map[string]int {
	var hits map[string]int

	if alg == match.AlgorithmAhoCorasick {
		for kw, offsets := range ac.Search(text) {
			if hits == nil {
				hits = make(map[string]int)
			}
			hits[kw] = len(offsets)
		}
		return hits
	}

	for _, kw := range keywords {
		if offsets := match.SearchOne(alg, text, kw); len(offsets) > 0 {
			if hits == nil {
				hits = make(map[string]int)
			}
			hits[kw] = len(offsets)
		}
	}
	return hits
}

// keywordsWithoutExactHits returns the keywords no document matched
// exactly, preserving query order.
func keywordsWithoutExactHits(keywords []string, exact map[int64]map[string]int) []string {
	hit := make(map[string]struct{})
	for _, counts := range exact {
		for kw := range counts {
			hit[kw] = struct{}{}
		}
	}

	var missing []string
	for _, kw := range keywords {
		if _, ok := hit[kw]; !ok {
			missing = append(missing, kw)
		}
	}
	return missing
}

// rank merges the two phases and orders documents by score descending,
// document ID ascending. Exact and fuzzy document sets are disjoint by
// construction.
func rank(exact map[int64]map[string]int, approx map[int64]map[string]FuzzyMatch, limit int) []DocumentResult {
	results := make([]DocumentResult, 0, len(exact)+len(approx))

	for id, counts := range exact {
		var score float64
		for _, n := range counts {
			score += float64(n)
		}
		results = append(results, DocumentResult{DocumentID: id, Exact: counts, Score: score})
	}

	for id, hits := range approx {
		if _, ok := exact[id]; ok {
			continue
		}
		var score float64
		for _, h := range hits {
			score += h.Similarity
		}
		results = append(results, DocumentResult{DocumentID: id, Fuzzy: hits, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// acquirePool creates and probes a worker pool for one search. A false
// return means the caller must take the sequential path.
func (e *Engine) acquirePool(res *Results) (*workerPool, bool) {
	size := e.workersCfg.PoolSize
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if e.workersCfg.MaxPoolSize > 0 && size > e.workersCfg.MaxPoolSize {
		size = e.workersCfg.MaxPoolSize
	}

	pool, err := e.poolFactory(size, e.logger)
	if err != nil {
		e.logger.Warn("worker pool unavailable, falling back to sequential search",
			slog.String("error", err.Error()))
		res.Stats.PoolFallback = true
		return nil, false
	}

	if err := pool.probe(e.probeTimeout); err != nil {
		pool.release()
		werr := cverr.WorkerPoolUnavailable("pool probe failed", err)
		e.logger.Warn("worker pool probe failed, falling back to sequential search",
			slog.String("error", werr.Error()))
		res.Stats.PoolFallback = true
		return nil, false
	}

	return pool, true
}

func (e *Engine) record(res *Results) {
	if e.metrics == nil {
		return
	}
	e.metrics.Record(telemetry.QueryEvent{
		Keywords:     res.Stats.Keywords,
		Algorithm:    res.Stats.Algorithm,
		ResultCount:  len(res.Documents),
		ExactLatency: res.Stats.ExactPhase,
		FuzzyLatency: res.Stats.FuzzyPhase,
		TotalLatency: res.Stats.Total,
		Parallel:     res.Stats.ParallelUsed,
		PoolFallback: res.Stats.PoolFallback,
		Timestamp:    time.Now(),
	})
}

// Package config provides configuration for cvsearch.
//
// Precedence, lowest to highest: built-in defaults, YAML config file,
// CVSEARCH_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete cvsearch configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search" json:"search"`
	Fuzzy      FuzzyConfig      `yaml:"fuzzy" json:"fuzzy"`
	Thresholds ThresholdsConfig `yaml:"thresholds" json:"thresholds"`
	Workers    WorkersConfig    `yaml:"workers" json:"workers"`
	Corpus     CorpusConfig     `yaml:"corpus" json:"corpus"`
	LogLevel   string           `yaml:"log_level" json:"log_level"`
}

// SearchConfig configures query defaults.
type SearchConfig struct {
	// Algorithm is the default exact-match algorithm: KMP, BM, or AC.
	Algorithm string `yaml:"algorithm" json:"algorithm"`

	// MaxResults is the default result limit. Clamped to [1, MaxResultsCap].
	MaxResults int `yaml:"max_results" json:"max_results"`

	// MaxResultsCap is the hard upper bound accepted from callers.
	MaxResultsCap int `yaml:"max_results_cap" json:"max_results_cap"`

	// Parallel enables the worker pool path by default.
	Parallel bool `yaml:"parallel" json:"parallel"`
}

// FuzzyConfig holds the fuzzy-match heuristics. These are tuning policy,
// not algorithm contract, so they live in configuration.
type FuzzyConfig struct {
	// LeniencyMinLength is the minimum keyword length for the single-word
	// leniency bonus.
	LeniencyMinLength int `yaml:"leniency_min_length" json:"leniency_min_length"`

	// LeniencyMinSimilarity is the similarity a candidate must already have
	// before the bonus applies.
	LeniencyMinSimilarity float64 `yaml:"leniency_min_similarity" json:"leniency_min_similarity"`

	// LeniencyBonus is added to qualifying similarities.
	LeniencyBonus float64 `yaml:"leniency_bonus" json:"leniency_bonus"`

	// LeniencyCap caps the boosted similarity.
	LeniencyCap float64 `yaml:"leniency_cap" json:"leniency_cap"`

	// LongPhraseLength is the character length beyond which near-identical
	// phrases get floored similarities instead of the proportional formula.
	LongPhraseLength int `yaml:"long_phrase_length" json:"long_phrase_length"`

	// LongPhraseFloors maps edit distance to the floored similarity for
	// long phrases.
	LongPhraseFloor1 float64 `yaml:"long_phrase_floor_1" json:"long_phrase_floor_1"`
	LongPhraseFloor2 float64 `yaml:"long_phrase_floor_2" json:"long_phrase_floor_2"`
	LongPhraseFloor3 float64 `yaml:"long_phrase_floor_3" json:"long_phrase_floor_3"`

	// WindowSpread is how far the sliding-window token count may deviate
	// from the query token count.
	WindowSpread int `yaml:"window_spread" json:"window_spread"`

	// EarlyExitSimilarity short-circuits phrase scanning once exceeded.
	EarlyExitSimilarity float64 `yaml:"early_exit_similarity" json:"early_exit_similarity"`
}

// ThresholdsConfig defines the keyword-length threshold bands.
// Short keywords have little room for edit-distance tolerance without
// matching unrelated words, so the bands tighten as length shrinks.
type ThresholdsConfig struct {
	VeryShortMax int     `yaml:"very_short_max" json:"very_short_max"` // <= this: exact only
	ShortMax     int     `yaml:"short_max" json:"short_max"`
	MediumMax    int     `yaml:"medium_max" json:"medium_max"`
	LongMax      int     `yaml:"long_max" json:"long_max"`
	VeryShort    float64 `yaml:"very_short" json:"very_short"`
	Short        float64 `yaml:"short" json:"short"`
	Medium       float64 `yaml:"medium" json:"medium"`
	Long         float64 `yaml:"long" json:"long"`
	VeryLong     float64 `yaml:"very_long" json:"very_long"`
}

// WorkersConfig configures the parallel search path.
type WorkersConfig struct {
	// PoolSize is the number of workers. 0 means runtime.NumCPU capped at Max.
	PoolSize int `yaml:"pool_size" json:"pool_size"`

	// MaxPoolSize caps the automatic pool sizing.
	MaxPoolSize int `yaml:"max_pool_size" json:"max_pool_size"`

	// MinChunkSize and MaxChunkSize clamp the per-worker chunk size.
	MinChunkSize int `yaml:"min_chunk_size" json:"min_chunk_size"`
	MaxChunkSize int `yaml:"max_chunk_size" json:"max_chunk_size"`

	// EarlyStopMultiplier stops dispatching new chunks once
	// EarlyStopMultiplier * max_results exact matches are merged.
	EarlyStopMultiplier int `yaml:"early_stop_multiplier" json:"early_stop_multiplier"`

	// ProbeTimeout is how long the pool probe may take before the
	// orchestrator falls back to sequential search (e.g. "3s").
	ProbeTimeout string `yaml:"probe_timeout" json:"probe_timeout"`

	// MinDocsForParallel is the corpus size below which the parallel path
	// is not worth the dispatch overhead.
	MinDocsForParallel int `yaml:"min_docs_for_parallel" json:"min_docs_for_parallel"`
}

// CorpusConfig configures the document store.
type CorpusConfig struct {
	// Path is the SQLite database file holding applicant records.
	Path string `yaml:"path" json:"path"`

	// CacheSize is the LRU capacity for flattened text projections.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// NewConfig returns the built-in default configuration.
func NewConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Algorithm:     "KMP",
			MaxResults:    10,
			MaxResultsCap: 1000,
			Parallel:      true,
		},
		Fuzzy: FuzzyConfig{
			LeniencyMinLength:     8,
			LeniencyMinSimilarity: 0.75,
			LeniencyBonus:         0.1,
			LeniencyCap:           0.85,
			LongPhraseLength:      50,
			LongPhraseFloor1:      0.95,
			LongPhraseFloor2:      0.90,
			LongPhraseFloor3:      0.85,
			WindowSpread:          2,
			EarlyExitSimilarity:   0.95,
		},
		Thresholds: ThresholdsConfig{
			VeryShortMax: 3,
			ShortMax:     5,
			MediumMax:    8,
			LongMax:      12,
			VeryShort:    1.0,
			Short:        0.95,
			Medium:       0.85,
			Long:         0.80,
			VeryLong:     0.70,
		},
		Workers: WorkersConfig{
			PoolSize:            0,
			MaxPoolSize:         8,
			MinChunkSize:        5,
			MaxChunkSize:        100,
			EarlyStopMultiplier: 3,
			ProbeTimeout:        "3s",
			MinDocsForParallel:  10,
		},
		Corpus: CorpusConfig{
			Path:      "cvsearch.db",
			CacheSize: 1024,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the given path (if non-empty and the file
// exists), applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadYAML merges a YAML file over the current configuration.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies CVSEARCH_* environment variables, the highest
// precedence configuration source.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CVSEARCH_ALGORITHM"); v != "" {
		c.Search.Algorithm = strings.ToUpper(v)
	}
	if v := os.Getenv("CVSEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("CVSEARCH_PARALLEL"); v != "" {
		c.Search.Parallel = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("CVSEARCH_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Workers.PoolSize = n
		}
	}
	if v := os.Getenv("CVSEARCH_PROBE_TIMEOUT"); v != "" {
		c.Workers.ProbeTimeout = v
	}
	if v := os.Getenv("CVSEARCH_CORPUS_PATH"); v != "" {
		c.Corpus.Path = v
	}
	if v := os.Getenv("CVSEARCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks range and consistency constraints.
func (c *Config) Validate() error {
	validAlgorithms := map[string]bool{"KMP": true, "BM": true, "AC": true}
	if !validAlgorithms[strings.ToUpper(c.Search.Algorithm)] {
		return fmt.Errorf("search.algorithm must be 'KMP', 'BM', or 'AC', got %s", c.Search.Algorithm)
	}

	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.MaxResultsCap < c.Search.MaxResults {
		return fmt.Errorf("search.max_results_cap (%d) must be >= search.max_results (%d)",
			c.Search.MaxResultsCap, c.Search.MaxResults)
	}

	for name, v := range map[string]float64{
		"fuzzy.leniency_min_similarity": c.Fuzzy.LeniencyMinSimilarity,
		"fuzzy.leniency_cap":            c.Fuzzy.LeniencyCap,
		"fuzzy.early_exit_similarity":   c.Fuzzy.EarlyExitSimilarity,
		"thresholds.very_short":         c.Thresholds.VeryShort,
		"thresholds.short":              c.Thresholds.Short,
		"thresholds.medium":             c.Thresholds.Medium,
		"thresholds.long":               c.Thresholds.Long,
		"thresholds.very_long":          c.Thresholds.VeryLong,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, v)
		}
	}

	// Threshold bands must be monotonic non-increasing in keyword length.
	t := c.Thresholds
	if t.VeryShort < t.Short || t.Short < t.Medium || t.Medium < t.Long || t.Long < t.VeryLong {
		return fmt.Errorf("threshold bands must be non-increasing with keyword length")
	}
	if !(t.VeryShortMax < t.ShortMax && t.ShortMax < t.MediumMax && t.MediumMax < t.LongMax) {
		return fmt.Errorf("threshold band boundaries must be strictly increasing")
	}

	if c.Workers.MinChunkSize < 1 {
		return fmt.Errorf("workers.min_chunk_size must be positive, got %d", c.Workers.MinChunkSize)
	}
	if c.Workers.MaxChunkSize < c.Workers.MinChunkSize {
		return fmt.Errorf("workers.max_chunk_size (%d) must be >= workers.min_chunk_size (%d)",
			c.Workers.MaxChunkSize, c.Workers.MinChunkSize)
	}
	if c.Workers.EarlyStopMultiplier < 1 {
		return fmt.Errorf("workers.early_stop_multiplier must be positive, got %d", c.Workers.EarlyStopMultiplier)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

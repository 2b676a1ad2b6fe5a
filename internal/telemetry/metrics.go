// Package telemetry collects search usage metrics for tuning the engine.
// All data stays in memory and local to the process.
package telemetry

import (
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP10   LatencyBucket = "p10"   // <10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketP10
	case ms < 50:
		return BucketP50
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	default:
		return BucketP1000
	}
}

// QueryEvent represents one completed search for recording.
type QueryEvent struct {
	Keywords     []string
	Algorithm    string
	ResultCount  int
	ExactLatency time.Duration
	FuzzyLatency time.Duration
	TotalLatency time.Duration
	Parallel     bool
	PoolFallback bool
	Timestamp    time.Time
}

// IsZeroResult returns true if the search matched nothing.
func (e QueryEvent) IsZeroResult() bool {
	return e.ResultCount == 0
}

// CircularBuffer is a fixed-capacity FIFO buffer.
type CircularBuffer[T any] struct {
	mu       sync.RWMutex
	items    []T
	head     int // next write position
	size     int
	capacity int
}

// NewCircularBuffer creates a buffer with the given capacity.
func NewCircularBuffer[T any](capacity int) *CircularBuffer[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &CircularBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends an item, evicting the oldest when full.
func (b *CircularBuffer[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.head] = item
	b.head = (b.head + 1) % b.capacity

	if b.size < b.capacity {
		b.size++
	}
}

// Items returns the buffer contents in FIFO order, oldest first.
func (b *CircularBuffer[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return []T{}
	}

	result := make([]T, b.size)
	if b.size < b.capacity {
		copy(result, b.items[:b.size])
	} else {
		copy(result, b.items[b.head:])
		copy(result[b.capacity-b.head:], b.items[:b.head])
	}
	return result
}

// Size returns the current item count.
func (b *CircularBuffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Clear empties the buffer.
func (b *CircularBuffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.size = 0
}

// KeywordCount pairs a keyword with its query frequency.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// Snapshot is an immutable view of the collected metrics.
type Snapshot struct {
	AlgorithmCounts     map[string]int64        `json:"algorithm_counts"`
	TopKeywords         []KeywordCount          `json:"top_keywords"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	TotalQueries        int64                   `json:"total_queries"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	ParallelQueries     int64                   `json:"parallel_queries"`
	PoolFallbacks       int64                   `json:"pool_fallbacks"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns the share of zero-result queries.
func (s *Snapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// Config sizes the metrics collector.
type Config struct {
	TopKeywordsCapacity int // max keywords to track (default 100)
	ZeroResultsCapacity int // max zero-result queries to keep (default 100)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TopKeywordsCapacity: 100,
		ZeroResultsCapacity: 100,
	}
}

// Metrics collects search telemetry. Thread-safe for concurrent access.
type Metrics struct {
	mu sync.RWMutex

	algorithms      map[string]int64
	topKeywords     *lru.Cache[string, int64]
	zeroResults     *CircularBuffer[string]
	latencies       map[LatencyBucket]int64
	totalQueries    int64
	zeroResultCount int64
	parallelQueries int64
	poolFallbacks   int64
	startTime       time.Time
}

// New creates a collector with default configuration.
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a collector with custom capacities.
func NewWithConfig(cfg Config) *Metrics {
	if cfg.TopKeywordsCapacity <= 0 {
		cfg.TopKeywordsCapacity = 100
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = 100
	}

	topKeywords, _ := lru.New[string, int64](cfg.TopKeywordsCapacity)

	return &Metrics{
		algorithms:  make(map[string]int64),
		topKeywords: topKeywords,
		zeroResults: NewCircularBuffer[string](cfg.ZeroResultsCapacity),
		latencies:   make(map[LatencyBucket]int64),
		startTime:   time.Now(),
	}
}

// Record captures one search. Thread-safe and non-blocking.
func (m *Metrics) Record(event QueryEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalQueries++
	m.algorithms[event.Algorithm]++
	m.latencies[LatencyToBucket(event.TotalLatency)]++

	if event.Parallel {
		m.parallelQueries++
	}
	if event.PoolFallback {
		m.poolFallbacks++
	}

	for _, k := range event.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		count, _ := m.topKeywords.Get(k)
		m.topKeywords.Add(k, count+1)
	}

	if event.IsZeroResult() {
		m.zeroResultCount++
		m.zeroResults.Add(strings.Join(event.Keywords, " "))
	}
}

// Snapshot returns a copy of the current state.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	algorithms := make(map[string]int64, len(m.algorithms))
	for k, v := range m.algorithms {
		algorithms[k] = v
	}

	latencies := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = v
	}

	keywords := make([]KeywordCount, 0, m.topKeywords.Len())
	for _, k := range m.topKeywords.Keys() {
		if count, ok := m.topKeywords.Peek(k); ok {
			keywords = append(keywords, KeywordCount{Keyword: k, Count: count})
		}
	}

	return Snapshot{
		AlgorithmCounts:     algorithms,
		TopKeywords:         keywords,
		ZeroResultQueries:   m.zeroResults.Items(),
		LatencyDistribution: latencies,
		TotalQueries:        m.totalQueries,
		ZeroResultCount:     m.zeroResultCount,
		ParallelQueries:     m.parallelQueries,
		PoolFallbacks:       m.poolFallbacks,
		Since:               m.startTime,
	}
}

// Reset clears all collected metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.algorithms = make(map[string]int64)
	m.topKeywords.Purge()
	m.zeroResults.Clear()
	m.latencies = make(map[LatencyBucket]int64)
	m.totalQueries = 0
	m.zeroResultCount = 0
	m.parallelQueries = 0
	m.poolFallbacks = 0
	m.startTime = time.Now()
}

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	cverr "github.com/talenthive/cvsearch/internal/errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// Applicant is a structured CV row as stored in the database.
type Applicant struct {
	ID         int64
	Name       string
	Role       string
	Summary    string
	Skills     string
	Experience string
	Education  string
	RawText    string
}

// Store persists applicants in SQLite and projects them into search
// documents. Projections are cached per (id, updated_at) so reloading an
// unchanged corpus skips the flattening work.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	cache  *lru.Cache[projectionKey, string]
	logger *slog.Logger
	closed bool

	skipped atomic.Int64 // rows rejected during projection, cumulative
}

type projectionKey struct {
	id        int64
	updatedAt int64
}

// Verify interface implementation at compile time
var _ Corpus = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// validateIntegrity checks an existing database before opening it for
// real. A missing file is fine; it will be created.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// Open opens (or creates) the applicant store at path. An empty path
// opens an in-memory store for testing.
func Open(path string, cacheSize int, opts ...StoreOption) (*Store, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, cverr.New(cverr.ErrCodeCorpusOpen,
				fmt.Sprintf("failed to create directory %s", dir), err)
		}

		if err := validateIntegrity(path); err != nil {
			return nil, cverr.New(cverr.ErrCodeCorpusCorrupt,
				fmt.Sprintf("corpus database corrupted at %s", path), err)
		}

		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, cverr.New(cverr.ErrCodeCorpusOpen, "failed to open database", err)
	}

	// Single writer prevents lock contention under the pure Go driver.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// DSN params may be ignored by modernc.org/sqlite; set pragmas
	// explicitly.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, cverr.New(cverr.ErrCodeCorpusOpen, "failed to set pragma", err)
		}
	}

	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[projectionKey, string](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, cverr.New(cverr.ErrCodeCorpusOpen, "failed to create projection cache", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, cverr.New(cverr.ErrCodeCorpusOpen, "failed to initialize schema", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS applicants (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT '',
		summary    TEXT NOT NULL DEFAULT '',
		skills     TEXT NOT NULL DEFAULT '',
		experience TEXT NOT NULL DEFAULT '',
		education  TEXT NOT NULL DEFAULT '',
		raw_text   TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or replaces applicants in one transaction.
func (s *Store) Put(ctx context.Context, applicants ...Applicant) error {
	if len(applicants) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return cverr.New(cverr.ErrCodeCorpusOpen, "store is closed", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cverr.New(cverr.ErrCodeCorpusLoad, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO applicants
			(id, name, role, summary, skills, experience, education, raw_text, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return cverr.New(cverr.ErrCodeCorpusLoad, "failed to prepare insert", err)
	}
	defer stmt.Close()

	// Nanosecond stamps keep projection cache keys distinct across
	// rapid rewrites of the same row.
	now := time.Now().UnixNano()
	for _, a := range applicants {
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.Name, a.Role, a.Summary, a.Skills, a.Experience, a.Education, a.RawText, now); err != nil {
			return cverr.New(cverr.ErrCodeCorpusLoad,
				fmt.Sprintf("failed to store applicant %d", a.ID), err)
		}
	}

	return tx.Commit()
}

type applicantRow struct {
	Applicant
	updatedAt int64
}

// Documents implements Corpus. Rows are read sequentially; projection
// (flattening, whitespace normalization, UTF-8 validation) runs across
// runtime.NumCPU() goroutines. Rows that fail validation are skipped and
// logged, never fatal.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, cverr.New(cverr.ErrCodeCorpusOpen, "store is closed", nil)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, summary, skills, experience, education, raw_text, updated_at
		FROM applicants ORDER BY id`)
	if err != nil {
		return nil, cverr.New(cverr.ErrCodeCorpusLoad, "failed to query applicants", err)
	}
	defer rows.Close()

	var raw []applicantRow
	for rows.Next() {
		var r applicantRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Role, &r.Summary,
			&r.Skills, &r.Experience, &r.Education, &r.RawText, &r.updatedAt); err != nil {
			return nil, cverr.New(cverr.ErrCodeCorpusLoad, "failed to scan applicant", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, cverr.New(cverr.ErrCodeCorpusLoad, "failed to read applicants", err)
	}

	docs := make([]Document, len(raw))
	skipped := make([]bool, len(raw))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range raw {
		i := i
		g.Go(func() error {
			text, ok := s.project(raw[i])
			if !ok {
				skipped[i] = true
				return nil
			}
			docs[i] = Document{ID: raw[i].ID, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, cverr.New(cverr.ErrCodeCorpusLoad, "projection failed", err)
	}

	out := docs[:0]
	for i := range docs {
		if !skipped[i] {
			out = append(out, docs[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// project flattens one row into searchable text, via the cache when the
// row is unchanged since the last load.
func (s *Store) project(r applicantRow) (string, bool) {
	key := projectionKey{id: r.ID, updatedAt: r.updatedAt}
	if text, ok := s.cache.Get(key); ok {
		return text, true
	}

	text := NormalizeText(strings.Join([]string{
		r.Name, r.Role, r.Summary, r.Skills, r.Experience, r.Education, r.RawText,
	}, " "))

	if !utf8.ValidString(text) {
		s.skipped.Add(1)
		s.logger.Warn("skipping applicant with invalid UTF-8",
			slog.Int64("id", r.ID))
		return "", false
	}

	s.cache.Add(key, text)
	return text, true
}

// Len implements Corpus. It reports the live row count, not the count of
// the last projection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM applicants`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Skipped reports how many rows have been rejected during projection
// since the store was opened.
func (s *Store) Skipped() int64 {
	return s.skipped.Load()
}

// Close releases the database handle. Safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

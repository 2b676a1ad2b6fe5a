package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	cverr "github.com/talenthive/cvsearch/internal/errors"
)

// workerPool wraps an ants pool with the health probe the orchestrator
// runs before committing to the parallel path.
type workerPool struct {
	pool   *ants.Pool
	size   int
	logger *slog.Logger
}

func newWorkerPool(size int, logger *slog.Logger) (*workerPool, error) {
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &workerPool{pool: pool, size: size, logger: logger}, nil
}

// probe verifies the pool can run a task end to end within timeout. A
// failed probe means the parallel path is not trustworthy and the caller
// must fall back to sequential search.
func (w *workerPool) probe(timeout time.Duration) error {
	done := make(chan struct{})
	if err := w.pool.Submit(func() { close(done) }); err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("worker pool probe timed out after %s", timeout)
	}
}

// runChunks submits one task per chunk and waits for all of them. A
// chunk that errors or panics is retried once; a second failure drops
// the chunk and the search degrades rather than failing outright. The
// returned count is the number of dropped chunks.
func (w *workerPool) runChunks(ctx context.Context, chunks int, run func(chunk int) error) int {
	var wg sync.WaitGroup
	var dropped atomic.Int64

	for i := 0; i < chunks; i++ {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()

			err := cverr.Retry(ctx, cverr.ChunkRetryConfig(), func() error {
				return w.runSafe(i, run)
			})
			if err != nil {
				dropped.Add(1)
				w.logger.Warn("chunk dropped after retry",
					slog.Int("chunk", i),
					slog.String("error", err.Error()))
			}
		}

		if err := w.pool.Submit(task); err != nil {
			// Pool rejected the task; run it on the caller so the
			// chunk is not lost.
			w.logger.Warn("pool submit failed, running chunk inline",
				slog.Int("chunk", i),
				slog.String("error", err.Error()))
			task()
		}
	}

	wg.Wait()
	return int(dropped.Load())
}

// runSafe converts a panicking chunk into a retryable task failure.
func (w *workerPool) runSafe(chunk int, run func(chunk int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cverr.WorkerTaskFailure(
				fmt.Sprintf("chunk %d panicked: %v", chunk, r), nil)
		}
	}()

	if err := run(chunk); err != nil {
		return cverr.WorkerTaskFailure(fmt.Sprintf("chunk %d failed", chunk), err)
	}
	return nil
}

func (w *workerPool) release() {
	w.pool.Release()
}

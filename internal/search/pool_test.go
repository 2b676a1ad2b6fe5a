package search

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, size int) *workerPool {
	t.Helper()
	p, err := newWorkerPool(size, slog.Default())
	require.NoError(t, err)
	t.Cleanup(p.release)
	return p
}

func TestPoolProbe(t *testing.T) {
	p := newTestPool(t, 2)
	assert.NoError(t, p.probe(time.Second))
}

func TestPoolProbeAfterRelease(t *testing.T) {
	p, err := newWorkerPool(2, slog.Default())
	require.NoError(t, err)
	p.release()

	assert.Error(t, p.probe(time.Second))
}

func TestRunChunksAll(t *testing.T) {
	p := newTestPool(t, 4)

	var ran atomic.Int64
	dropped := p.runChunks(context.Background(), 10, func(chunk int) error {
		ran.Add(1)
		return nil
	})

	assert.Zero(t, dropped)
	assert.Equal(t, int64(10), ran.Load())
}

func TestRunChunksRetriesOnce(t *testing.T) {
	p := newTestPool(t, 2)

	var attempts atomic.Int64
	dropped := p.runChunks(context.Background(), 1, func(chunk int) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	})

	assert.Zero(t, dropped)
	assert.Equal(t, int64(2), attempts.Load())
}

func TestRunChunksDropsAfterRetry(t *testing.T) {
	p := newTestPool(t, 2)

	var attempts atomic.Int64
	dropped := p.runChunks(context.Background(), 3, func(chunk int) error {
		attempts.Add(1)
		if chunk == 1 {
			return errors.New("persistent")
		}
		return nil
	})

	assert.Equal(t, 1, dropped)
	// Chunk 1 ran twice, chunks 0 and 2 once each.
	assert.Equal(t, int64(4), attempts.Load())
}

func TestRunChunksRecoversPanics(t *testing.T) {
	p := newTestPool(t, 2)

	dropped := p.runChunks(context.Background(), 2, func(chunk int) error {
		if chunk == 0 {
			panic("worker blew up")
		}
		return nil
	})

	assert.Equal(t, 1, dropped)
}

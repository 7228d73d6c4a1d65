package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitReturnsTaskError(t *testing.T) {
	p := New(Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	want := errors.New("smtp down")
	err := p.Submit(context.Background(), "mail", func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)

	err = p.Submit(context.Background(), "ok", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)

	m := p.GetMetrics()
	assert.Equal(t, int64(1), m.Failed)
	assert.Equal(t, int64(1), m.Completed)
}

func TestPool_GoRunsAsync(t *testing.T) {
	p := New(Config{MaxWorkers: 1, QueueSize: 8}, nil)

	var n atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Go("count", func(ctx context.Context) error {
			n.Add(1)
			return nil
		}))
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(5), n.Load())
}

func TestPool_RecoversPanic(t *testing.T) {
	p := New(Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), "boom", func(ctx context.Context) error { panic("boom") })
	assert.Error(t, err)

	// worker still alive
	err = p.Submit(context.Background(), "after", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestPool_RejectsWhenFullOrClosed(t *testing.T) {
	p := New(Config{MaxWorkers: 1, QueueSize: 1}, nil)

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Go("block", func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	}))
	<-started
	require.NoError(t, p.Go("queued", func(ctx context.Context) error { return nil }))
	assert.ErrorIs(t, p.Go("overflow", func(ctx context.Context) error { return nil }), ErrWorkerPoolFull)

	close(block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	assert.ErrorIs(t, p.Go("late", func(ctx context.Context) error { return nil }), ErrWorkerPoolClosed)
}

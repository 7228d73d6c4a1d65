package writequeue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SerializesPerLane(t *testing.T) {
	m := New(Config{QueueCapacity: 64}, nil)
	defer m.Shutdown(context.Background())

	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		wg       sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(context.Background(), "contract", func(ctx context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > maxSeen {
					maxSeen = inFlight
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 1, m.LaneCount())
}

func TestManager_PropagatesError(t *testing.T) {
	m := New(Config{}, nil)
	defer m.Shutdown(context.Background())

	want := errors.New("constraint failed")
	err := m.Execute(context.Background(), "mail", func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestManager_SweepAndShutdown(t *testing.T) {
	m := New(Config{IdleTimeout: time.Minute}, nil)

	require.NoError(t, m.Execute(context.Background(), "a", func(ctx context.Context) error { return nil }))
	require.NoError(t, m.Execute(context.Background(), "b", func(ctx context.Context) error { return nil }))
	assert.Equal(t, 2, m.LaneCount())

	assert.Equal(t, 0, m.Sweep(time.Now()))
	assert.Equal(t, 2, m.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, m.LaneCount())

	// lane is recreated on demand
	require.NoError(t, m.Execute(context.Background(), "a", func(ctx context.Context) error { return nil }))

	require.NoError(t, m.Shutdown(context.Background()))
	err := m.Execute(context.Background(), "a", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueClosed)
}

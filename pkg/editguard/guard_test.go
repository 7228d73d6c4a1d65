package editguard

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scope = Scope{UID: 1, Entity: "contract", EntityID: 7}

func TestRegistry_ConcurrentSubmitWritesOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(time.Hour, reg)
	token := r.Issue(scope)

	var writes atomic.Int32
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.Do(token, scope, func() error {
				writes.Add(1)
				time.Sleep(5 * time.Millisecond)
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), writes.Load())
	rejected := 0
	for _, err := range errs {
		if errors.Is(err, ErrAlreadySubmitted) {
			rejected++
		} else {
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, 9, rejected)
	assert.True(t, r.Submitted(token))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.rejected))
}

func TestRegistry_FailureAllowsResubmit(t *testing.T) {
	r := New(time.Hour, nil)
	token := r.Issue(scope)

	invalid := errors.New("title is required")
	err := r.Do(token, scope, func() error { return invalid })
	assert.ErrorIs(t, err, invalid)
	assert.False(t, r.Submitted(token))

	calls := 0
	require.NoError(t, r.Do(token, scope, func() error { calls++; return nil }))
	assert.ErrorIs(t, r.Do(token, scope, func() error { calls++; return nil }), ErrAlreadySubmitted)
	assert.Equal(t, 1, calls)
}

func TestRegistry_RenderIssuesFreshToken(t *testing.T) {
	r := New(time.Hour, nil)
	first := r.Issue(scope)
	require.NoError(t, r.Do(first, scope, func() error { return nil }))

	second := r.Issue(scope)
	assert.NotEqual(t, first, second)
	assert.False(t, r.Submitted(second))
	assert.NoError(t, r.Do(second, scope, func() error { return nil }))
}

func TestRegistry_UnknownMismatchExpired(t *testing.T) {
	r := New(time.Minute, nil)
	assert.ErrorIs(t, r.Do("nope", scope, func() error { return nil }), ErrUnknownToken)

	token := r.Issue(scope)
	other := Scope{UID: 2, Entity: "contract", EntityID: 7}
	assert.ErrorIs(t, r.Do(token, other, func() error { return nil }), ErrTokenMismatch)

	assert.Equal(t, 0, r.Sweep(time.Now()))
	assert.Equal(t, 1, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, r.Do(token, scope, func() error { return nil }), ErrUnknownToken)
}

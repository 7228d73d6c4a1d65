package safe_close

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeClose_WaitsForAttached(t *testing.T) {
	sc := NewSafeClose()

	var cleaned atomic.Int32
	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			cleaned.Add(1)
		})
	}

	want := errors.New("listen failed")
	sc.SendCloseSignal(want)
	sc.SendCloseSignal(errors.New("second"))

	assert.ErrorIs(t, sc.WaitClosed(), want)
	assert.Equal(t, int32(3), cleaned.Load())
}

func TestSafeClose_DoneTwiceIsSafe(t *testing.T) {
	sc := NewSafeClose()
	sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		done()
		done()
	})
	sc.SendCloseSignal(nil)
	assert.NoError(t, sc.WaitClosed())
}

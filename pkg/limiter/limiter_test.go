package limiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodLimiter_KeyAndBucket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewMethodLimiter().AddBuckets(
		BucketRule{Key: "/api/user", FillInterval: time.Hour, Capacity: 2, Quantum: 1},
		BucketRule{Key: "/api/user/login", FillInterval: time.Hour, Capacity: 1, Quantum: 1},
	)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/user/login", nil)
	assert.Equal(t, "/api/user/login", l.Key(c))

	c.Request = httptest.NewRequest("GET", "/api/user/info", nil)
	assert.Equal(t, "/api/user", l.Key(c))

	c.Request = httptest.NewRequest("GET", "/api/contracts", nil)
	_, ok := l.GetBucket(l.Key(c))
	assert.False(t, ok)

	b, ok := l.GetBucket("/api/user/login")
	require.True(t, ok)
	assert.Equal(t, int64(1), b.TakeAvailable(1))
	assert.Equal(t, int64(0), b.TakeAvailable(1))
}

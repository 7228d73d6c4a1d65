package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		err  bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"90", 90 * time.Second, false},
		{" 1h ", time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.Equal(t, time.Minute, MustParseDuration("bad", time.Minute))
	assert.Equal(t, time.Minute, MustParseDuration("0", time.Minute))
}

func TestPasswordHash(t *testing.T) {
	hash, err := GeneratePasswordHash("s3cret")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash(hash, "s3cret"))
	assert.False(t, CheckPasswordHash(hash, "S3cret"))
}

func TestGetRandomString(t *testing.T) {
	a := GetRandomString(32)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, GetRandomString(32))
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidEmail("kai@example.org"))
	assert.False(t, IsValidEmail("kai@example"))
	assert.True(t, IsValidUsername("k.reinhard-2"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("with space"))
	assert.True(t, IsValidClock("08:05"))
	assert.True(t, IsValidClock("23:59"))
	assert.False(t, IsValidClock("24:00"))
	assert.False(t, IsValidClock("8:05"))
	assert.False(t, IsValidClock(""))
}

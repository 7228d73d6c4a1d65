package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnixMethods(t *testing.T) {
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	assert.Equal(t, now.Unix(), tt.Unix())
	assert.Equal(t, now.UnixMilli(), tt.UnixMilli())
	assert.Equal(t, now.UnixMicro(), tt.UnixMicro())
	assert.Equal(t, now.UnixNano(), tt.UnixNano())

	// 确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, now.Unix(), tt.Unix())
}

func TestTime_JSON(t *testing.T) {
	type payload struct {
		At   Time  `json:"at"`
		Zero Time  `json:"zero"`
		Ptr  *Time `json:"ptr"`
	}
	at := Time(time.Date(2024, 3, 5, 8, 30, 0, 0, time.Local))
	b, err := json.Marshal(payload{At: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-03-05 08:30:00","zero":null,"ptr":null}`, string(b))

	var got payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-03-05","zero":null}`), &got))
	assert.Equal(t, 2024, got.At.Time().Year())
	assert.Equal(t, time.March, got.At.Time().Month())
	assert.True(t, got.Zero.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"at":"5.3.2024"}`), &got))
}

func TestRanges(t *testing.T) {
	start, end := MonthRange(2024, 12)
	assert.Equal(t, time.December, start.Month())
	assert.Equal(t, 2025, end.Year())
	assert.Equal(t, time.January, end.Month())

	start, end = YearRange(2023)
	assert.Equal(t, 2023, start.Year())
	assert.Equal(t, 2024, end.Year())

	d := time.Date(2024, 2, 29, 17, 4, 0, 0, time.Local)
	start, end = DayRange(d)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 1, end.Day())
}

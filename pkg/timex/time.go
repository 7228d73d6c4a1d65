// Package timex 提供 JSON 友好的时间类型与日期区间计算
package timex

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Time 以 "2006-01-02 15:04:05" 格式序列化的时间
type Time time.Time

func Now() Time {
	return Time(time.Now())
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64      { return time.Time(t).Unix() }
func (t Time) UnixMilli() int64 { return time.Time(t).UnixMilli() }
func (t Time) UnixMicro() int64 { return time.Time(t).UnixMicro() }
func (t Time) UnixNano() int64  { return time.Time(t).UnixNano() }

func (t Time) String() string {
	if t.IsZero() {
		return ""
	}
	return time.Time(t).Format(DateTimeLayout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*t = Time(v)
	return nil
}

// GormDataType 让各数据库方言选择自己的时间列类型
func (Time) GormDataType() string {
	return "time"
}

// Value implements driver.Valuer.
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan implements sql.Scanner.
func (t *Time) Scan(v interface{}) error {
	switch val := v.(type) {
	case nil:
		*t = Time{}
	case time.Time:
		*t = Time(val)
	case string:
		p, err := Parse(val)
		if err != nil {
			return err
		}
		*t = Time(p)
	case []byte:
		return t.Scan(string(val))
	default:
		return fmt.Errorf("timex: cannot scan %T", v)
	}
	return nil
}

// sqlite 驱动写入时间列使用的格式
const sqliteLayout = "2006-01-02 15:04:05.999999999-07:00"

// Parse 依次尝试日期、日期时间与 RFC3339 格式，按本地时区解析
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, DateTimeLayout, sqliteLayout, time.RFC3339Nano} {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("timex: unsupported time format %q", s)
}

// StartOfDay 当天 0 点
func StartOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// YearRange 返回年份区间 [start, end)
func YearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(1, 0, 0)
}

// MonthRange 返回月份区间 [start, end)，month 取 1..12
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// DayRange 返回包含 d 的整天区间 [start, end)
func DayRange(d time.Time) (time.Time, time.Time) {
	start := StartOfDay(d)
	return start, start.AddDate(0, 0, 1)
}

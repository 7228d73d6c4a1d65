package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration 解析时间字符串，支持 'd' (天) 后缀，纯数字按秒处理
// 例如 "30m"、"12h"、"7d"、"90"
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// MustParseDuration 解析失败时返回 fallback
func MustParseDuration(s string, fallback time.Duration) time.Duration {
	d, err := ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

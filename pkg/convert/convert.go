package convert

import (
	"strconv"
	"strings"
)

type StrTo string

func (s StrTo) String() string {
	return string(s)
}

func (s StrTo) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(s.String()))
}

func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}

func (s StrTo) Int64() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s.String()), 10, 64)
}

func (s StrTo) MustInt64() int64 {
	v, _ := s.Int64()
	return v
}

// Bool 解析布尔值，支持 1/0、true/false、on/off
func (s StrTo) Bool() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s.String())) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return strconv.ParseBool(s.String())
}

func (s StrTo) MustBool() bool {
	v, _ := s.Bool()
	return v
}

// Int64List 解析逗号分隔的 ID 列表，忽略无法解析的项
func (s StrTo) Int64List() []int64 {
	var out []int64
	for _, part := range strings.Split(s.String(), ",") {
		if v, err := StrTo(part).Int64(); err == nil {
			out = append(out, v)
		}
	}
	return out
}

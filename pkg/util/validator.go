package util

import (
	"regexp"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,64}$`)
	hhmmPattern     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// IsValidEmail 邮箱格式是否正确，登录时用于区分邮箱和用户名
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidUsername 用户名：字母、数字、点、横线、下划线，长度 3-64
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidClock 是否为 HH:MM 格式的时刻，空字符串不合法
func IsValidClock(s string) bool {
	return hhmmPattern.MatchString(s)
}

package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang 存储英文和德文文本
// lang stores the English and German text of a code.
type lang struct {
	en string
	de string
}

const FALLBACK_LNG = "en"

var defaultLng atomic.Value

func init() {
	defaultLng.Store(FALLBACK_LNG)
}

// GetMessage returns the message in the global default language.
func (l lang) GetMessage() string {
	return l.GetMessageIn(GetGlobalDefaultLang())
}

// GetMessageIn returns the message in lng, falling back to English.
func (l lang) GetMessageIn(lng string) string {
	if normalize(lng) == "de" && l.de != "" {
		return l.de
	}
	return l.en
}

// GetSupportedLanguages 返回支持的语言
func GetSupportedLanguages() []string {
	return []string{"en", "de"}
}

// SetGlobalDefaultLang sets the language used when a request does not ask for one.
func SetGlobalDefaultLang(language string) error {
	if IsSupported(language) {
		defaultLng.Store(normalize(language))
		return nil
	}
	defaultLng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	return defaultLng.Load().(string)
}

// IsSupported reports whether lng has its own message table.
func IsSupported(lng string) bool {
	lng = normalize(lng)
	for _, l := range GetSupportedLanguages() {
		if l == lng {
			return true
		}
	}
	return false
}

func normalize(lng string) string {
	lng = strings.ToLower(strings.TrimSpace(lng))
	if i := strings.IndexAny(lng, "-_"); i > 0 {
		lng = lng[:i]
	}
	return lng
}

package middleware

import (
	"strings"

	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言来源依次为 ?lang=、lang 请求头、Accept-Language
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang, _, _ = strings.Cut(s, ",")
			lang, _, _ = strings.Cut(lang, ";")
		}

		lang = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "-", "_"))
		lang, _, _ = strings.Cut(lang, "_")
		if !code.IsSupported(lang) {
			lang = code.GetGlobalDefaultLang()
		}
		c.Set(app.LangKey, lang)

		if uni != nil {
			trans, found := uni.FindTranslator(lang)
			if !found {
				trans, _ = uni.GetTranslator(code.FALLBACK_LNG)
			}
			c.Set("trans", trans)
		}

		c.Next()
	}
}

// GetLang 当前请求的语言，未经过语言中间件时为全局默认语言
func GetLang(c *gin.Context) string {
	if c != nil {
		if lang := c.GetString(app.LangKey); lang != "" {
			return lang
		}
	}
	return code.GetGlobalDefaultLang()
}

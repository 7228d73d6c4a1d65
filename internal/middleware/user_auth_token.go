package middleware

import (
	"strings"

	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserAuthToken 用户 Token 认证中间件
// 按优先级尝试获取 Token：Authorization 头 -> Token 头 -> ?token=
func UserAuthToken(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := requestToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set(app.UserTokenKey, user)

		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if s := c.GetHeader("Authorization"); s != "" {
		if t, ok := strings.CutPrefix(s, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
		return s
	}
	if s := c.GetHeader("Token"); s != "" {
		return s
	}
	return c.Query("token")
}

package middleware

import (
	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter 限流中间件，令牌桶耗尽时返回请求过多
// 没有配置令牌桶的路径不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket, ok := l.GetBucket(l.Key(c))
		if ok && bucket.TakeAvailable(1) == 0 {
			c.Header("Retry-After", "1")
			app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

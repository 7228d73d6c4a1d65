package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// ContextTimeout creates middleware to set context timeout (supports dependency injection)
// ContextTimeout 创建设置上下文超时的中间件；处理器超时且尚未输出时返回服务繁忙
func ContextTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			app.NewResponse(c).ToResponse(code.ErrorWriteQueueBusy.WithDetails("request timeout"))
		}
	}
}

package middleware

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PanicReport 请求处理中未捕获的异常
type PanicReport struct {
	TraceID   string
	UID       int64
	Method    string
	Path      string
	Query     string
	IP        string
	UserAgent string
	Value     string
	Stack     string
	Time      time.Time
}

// Text 发送给支持团队的纯文本报告
func (r PanicReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "time:       %s\n", r.Time.Format(time.RFC3339))
	fmt.Fprintf(&b, "trace id:   %s\n", r.TraceID)
	fmt.Fprintf(&b, "user:       %d\n", r.UID)
	fmt.Fprintf(&b, "request:    %s %s?%s\n", r.Method, r.Path, r.Query)
	fmt.Fprintf(&b, "ip:         %s\n", r.IP)
	fmt.Fprintf(&b, "user-agent: %s\n", r.UserAgent)
	fmt.Fprintf(&b, "panic:      %s\n\n%s", r.Value, r.Stack)
	return b.String()
}

// PanicReporter 接收异常报告，实现方不应阻塞请求
type PanicReporter func(report PanicReport)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件（支持依赖注入）
// reporter 不为空时把异常报告交给它，例如异步邮件通知支持团队
func RecoveryWithLogger(lg *zap.Logger, reporter PanicReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			report := PanicReport{
				TraceID:   GetTraceIDFromGin(c),
				UID:       app.GetUID(c),
				Method:    c.Request.Method,
				Path:      c.Request.URL.Path,
				Query:     c.Request.URL.RawQuery,
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				Value:     fmt.Sprintf("%v", err),
				Stack:     string(debug.Stack()),
				Time:      time.Now(),
			}

			fields := []zap.Field{
				zap.String(logger.FieldTraceID, report.TraceID),
				zap.Int64(logger.FieldUID, report.UID),
				zap.String("router", report.Path),
				zap.String("method", report.Method),
				zap.String("query", report.Query),
				zap.String("ip", report.IP),
				zap.String("user-agent", report.UserAgent),
				zap.String("stack", report.Stack),
			}
			if e, ok := err.(error); ok {
				fields = append(fields, zap.Error(e))
			} else {
				fields = append(fields, zap.String("panic_value", report.Value))
			}
			lg.Error("Recovered from panic", fields...)

			if reporter != nil {
				reporter(report)
			}

			// 返回统一的错误响应，不向客户端暴露异常内容
			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(report.TraceID))
			c.Abort()
		}()

		c.Next()
	}
}

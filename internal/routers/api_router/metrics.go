package api_router

import (
	"expvar"

	"github.com/haierkeys/projectforge-office-service/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Expvar 导出系统运行时指标 (memstats, cmdline)
func Expvar(c *gin.Context) {
	expvar.Handler().ServeHTTP(c.Writer, c.Request)
}

// Metrics 导出应用容器 Registry 中的 prometheus 指标
// 包含列表缓存、编辑令牌和 Go 运行时指标
func Metrics(a *app.App) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(a.Registry(), promhttp.HandlerOpts{
		ErrorLog:      zap.NewStdLog(a.Logger()),
		ErrorHandling: promhttp.ContinueOnError,
	}))
}

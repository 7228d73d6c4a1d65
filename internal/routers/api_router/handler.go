// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"errors"

	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/middleware"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind 绑定并校验参数，失败时直接输出 ErrorInvalidParams
func (h *Handler) bind(c *gin.Context, params interface{}, method string) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(method+".BindAndValid errs",
			zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
			zap.Error(errs),
		)
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// uid 取当前登录用户，未登录时输出 ErrorNotUserAuthToken
func (h *Handler) uid(c *gin.Context, method string) (int64, bool) {
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error(method + " err uid=0")
		pkgapp.NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
		return 0, false
	}
	return uid, true
}

// logError 记录错误日志，包含 Trace ID
// 用户错误 (code.Code) 只记 Info，其他错误记 Error
func (h *Handler) logError(ctx context.Context, method string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		h.App.Logger().Info(method, fields...)
		return
	}
	h.App.Logger().Error(method, fields...)
}

package api_router

import (
	"github.com/haierkeys/projectforge-office-service/internal/app"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler health check API router handler
// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler creates HealthHandler instance
// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check health check
// @Summary Health check
// @Description Report database status and system information. Returns Failed when the database is unavailable.
// @Description 返回数据库状态与系统信息，数据库不可用时返回 Failed。
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HealthDTO} "Success"
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	out := h.App.HealthService.Check(c.Request.Context())
	if out.Status != "ok" {
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(out))
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(out))
}

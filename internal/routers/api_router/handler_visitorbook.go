package api_router

import (
	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
)

// VisitorbookHandler visitor book API router handler
// VisitorbookHandler 访客登记 API 路由处理器
type VisitorbookHandler struct {
	*EntityHandler[*dto.VisitorbookListRequest, *dto.VisitorbookSaveRequest, *dto.VisitorbookDTO, *dto.VisitorbookFilterDTO]
}

// NewVisitorbookHandler creates VisitorbookHandler instance
// NewVisitorbookHandler 创建 VisitorbookHandler 实例
func NewVisitorbookHandler(a *app.App) *VisitorbookHandler {
	return &VisitorbookHandler{
		EntityHandler: newEntityHandler[*dto.VisitorbookListRequest, *dto.VisitorbookSaveRequest, *dto.VisitorbookDTO, *dto.VisitorbookFilterDTO](a, "VisitorbookHandler", a.VisitorbookService,
			func() *dto.VisitorbookListRequest { return &dto.VisitorbookListRequest{} },
			func() *dto.VisitorbookSaveRequest { return &dto.VisitorbookSaveRequest{} },
		),
	}
}

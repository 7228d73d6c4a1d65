package api_router

import (
	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	apperrors "github.com/haierkeys/projectforge-office-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ContractHandler contract API router handler
// ContractHandler 合同 API 路由处理器
type ContractHandler struct {
	*EntityHandler[*dto.ContractListRequest, *dto.ContractSaveRequest, *dto.ContractDTO, *dto.ContractFilterDTO]
}

// NewContractHandler creates ContractHandler instance
// NewContractHandler 创建 ContractHandler 实例
func NewContractHandler(a *app.App) *ContractHandler {
	return &ContractHandler{
		EntityHandler: newEntityHandler[*dto.ContractListRequest, *dto.ContractSaveRequest, *dto.ContractDTO, *dto.ContractFilterDTO](a, "ContractHandler", a.ContractService,
			func() *dto.ContractListRequest { return &dto.ContractListRequest{} },
			func() *dto.ContractSaveRequest { return &dto.ContractSaveRequest{} },
		),
	}
}

// NextNumber returns the next free contract number
// @Summary Next contract number
// @Description Return the current highest contract number plus one.
// @Description 返回当前最大合同编号 + 1。
// @Tags Contract
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.NextNumberDTO} "Success"
// @Router /api/contract/next-number [get]
func (h *ContractHandler) NextNumber(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := h.App.ContractService.NextNumber(ctx)
	if err != nil {
		h.logError(ctx, "ContractHandler.NextNumber", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.NextNumberDTO{Number: n}))
}

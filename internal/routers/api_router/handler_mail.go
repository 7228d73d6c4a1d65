package api_router

import (
	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
)

// OutgoingMailHandler outgoing mail API router handler
// OutgoingMailHandler 发件登记 API 路由处理器
type OutgoingMailHandler struct {
	*EntityHandler[*dto.MailListRequest, *dto.OutgoingMailSaveRequest, *dto.OutgoingMailDTO, *dto.MailFilterDTO]
}

// NewOutgoingMailHandler creates OutgoingMailHandler instance
// NewOutgoingMailHandler 创建 OutgoingMailHandler 实例
func NewOutgoingMailHandler(a *app.App) *OutgoingMailHandler {
	return &OutgoingMailHandler{
		EntityHandler: newEntityHandler[*dto.MailListRequest, *dto.OutgoingMailSaveRequest, *dto.OutgoingMailDTO, *dto.MailFilterDTO](a, "OutgoingMailHandler", a.OutgoingMailService,
			newMailListRequest,
			func() *dto.OutgoingMailSaveRequest { return &dto.OutgoingMailSaveRequest{} },
		),
	}
}

// IncomingMailHandler incoming mail API router handler
// IncomingMailHandler 收件登记 API 路由处理器
type IncomingMailHandler struct {
	*EntityHandler[*dto.MailListRequest, *dto.IncomingMailSaveRequest, *dto.IncomingMailDTO, *dto.MailFilterDTO]
}

// NewIncomingMailHandler creates IncomingMailHandler instance
// NewIncomingMailHandler 创建 IncomingMailHandler 实例
func NewIncomingMailHandler(a *app.App) *IncomingMailHandler {
	return &IncomingMailHandler{
		EntityHandler: newEntityHandler[*dto.MailListRequest, *dto.IncomingMailSaveRequest, *dto.IncomingMailDTO, *dto.MailFilterDTO](a, "IncomingMailHandler", a.IncomingMailService,
			newMailListRequest,
			func() *dto.IncomingMailSaveRequest { return &dto.IncomingMailSaveRequest{} },
		),
	}
}

func newMailListRequest() *dto.MailListRequest { return &dto.MailListRequest{} }

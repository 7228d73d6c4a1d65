package dto

import "github.com/haierkeys/projectforge-office-service/pkg/timex"

// MailListRequest 收发件列表参数，Month 只在设置了 Year 时生效
type MailListRequest struct {
	ListRequest
	SearchString string `json:"searchString" form:"searchString"`
	Year         int    `json:"year" form:"year" binding:"omitempty,min=1900,max=2999"`
	Month        int    `json:"month" form:"month" binding:"omitempty,min=1,max=12"`
	Deleted      bool   `json:"deleted" form:"deleted"`
}

// OutgoingMailSaveRequest 发件新建/修改参数
type OutgoingMailSaveRequest struct {
	EditToken string     `json:"editToken" form:"editToken" binding:"required"`
	ID        int64      `json:"id" form:"id" binding:"omitempty,min=0"`
	Date      timex.Time `json:"date" form:"date"`
	Receiver  string     `json:"receiver" form:"receiver" binding:"required,notblank,max=1000"`
	Person    string     `json:"person" form:"person" binding:"max=1000"`
	Content   string     `json:"content" form:"content" binding:"required,notblank,max=4000"`
	Comment   string     `json:"comment" form:"comment" binding:"max=4000"`
	Type      string     `json:"type" form:"type" binding:"omitempty,oneof=letter fax parcel email other"`
}

// IncomingMailSaveRequest 收件新建/修改参数
type IncomingMailSaveRequest struct {
	EditToken string     `json:"editToken" form:"editToken" binding:"required"`
	ID        int64      `json:"id" form:"id" binding:"omitempty,min=0"`
	Date      timex.Time `json:"date" form:"date"`
	Sender    string     `json:"sender" form:"sender" binding:"required,notblank,max=1000"`
	Person    string     `json:"person" form:"person" binding:"max=1000"`
	Content   string     `json:"content" form:"content" binding:"required,notblank,max=4000"`
	Comment   string     `json:"comment" form:"comment" binding:"max=4000"`
	Type      string     `json:"type" form:"type" binding:"omitempty,oneof=letter fax parcel email other"`
}

// OutgoingMailDTO 发件
type OutgoingMailDTO struct {
	ID         int64      `json:"id"`
	Created    timex.Time `json:"created"`
	LastUpdate timex.Time `json:"lastUpdate"`
	Deleted    bool       `json:"deleted"`
	Date       timex.Time `json:"date"`
	Receiver   string     `json:"receiver"`
	Person     string     `json:"person"`
	Content    string     `json:"content"`
	Comment    string     `json:"comment"`
	Type       string     `json:"type"`
}

// IncomingMailDTO 收件
type IncomingMailDTO struct {
	ID         int64      `json:"id"`
	Created    timex.Time `json:"created"`
	LastUpdate timex.Time `json:"lastUpdate"`
	Deleted    bool       `json:"deleted"`
	Date       timex.Time `json:"date"`
	Sender     string     `json:"sender"`
	Person     string     `json:"person"`
	Content    string     `json:"content"`
	Comment    string     `json:"comment"`
	Type       string     `json:"type"`
}

// MailFilterDTO 保存的收发件过滤条件
type MailFilterDTO struct {
	SearchString string `json:"searchString"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Deleted      bool   `json:"deleted"`
}

// IsNew ID 为 0 时新建
func (r *OutgoingMailSaveRequest) IsNew() bool { return r.ID == 0 }

// IsNew ID 为 0 时新建
func (r *IncomingMailSaveRequest) IsNew() bool { return r.ID == 0 }

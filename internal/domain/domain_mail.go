package domain

import "time"

// MailType 邮件类型
type MailType string

const (
	MailTypeLetter MailType = "letter"
	MailTypeFax    MailType = "fax"
	MailTypeParcel MailType = "parcel"
	MailTypeEmail  MailType = "email"
	MailTypeOther  MailType = "other"
)

var MailTypes = []MailType{MailTypeLetter, MailTypeFax, MailTypeParcel, MailTypeEmail, MailTypeOther}

func (t MailType) Valid() bool {
	if t == "" {
		return true
	}
	for _, v := range MailTypes {
		if v == t {
			return true
		}
	}
	return false
}

// OutgoingMail 发件登记（Postausgang）
type OutgoingMail struct {
	Audit
	Date     time.Time
	Receiver string
	Person   string
	Content  string
	Comment  string
	Type     MailType
}

// IncomingMail 收件登记（Posteingang）
type IncomingMail struct {
	Audit
	Date    time.Time
	Sender  string
	Person  string
	Content string
	Comment string
	Type    MailType
}

// MailListFilter 收发件列表过滤条件
// Month 取 1..12，0 表示全年；Year 为 0 时忽略 Month
type MailListFilter struct {
	SearchString string
	Year         int
	Month        int
	Deleted      bool
}

func (f *MailListFilter) Reset() {
	*f = MailListFilter{}
}

// OutgoingMailRepository 发件仓储接口
type OutgoingMailRepository interface {
	BaseRepository[*OutgoingMail, MailListFilter]
}

// IncomingMailRepository 收件仓储接口
type IncomingMailRepository interface {
	BaseRepository[*IncomingMail, MailListFilter]
}

package model

import "time"

const (
	TableNameOutgoingMail = "outgoing_mail"
	TableNameIncomingMail = "incoming_mail"
)

// OutgoingMail mapped from table <outgoing_mail>
type OutgoingMail struct {
	Audit
	Date     time.Time `gorm:"column:date;not null;index" json:"date" form:"date"`
	Receiver string    `gorm:"column:receiver;size:1000;not null" json:"receiver" form:"receiver"`
	Person   string    `gorm:"column:person;size:1000" json:"person" form:"person"`
	Content  string    `gorm:"column:content;size:4000;not null" json:"content" form:"content"`
	Comment  string    `gorm:"column:comment;size:4000" json:"comment" form:"comment"`
	Type     string    `gorm:"column:type;size:100" json:"type" form:"type"`
}

// TableName OutgoingMail's table name
func (*OutgoingMail) TableName() string {
	return TableNameOutgoingMail
}

// IncomingMail mapped from table <incoming_mail>
type IncomingMail struct {
	Audit
	Date    time.Time `gorm:"column:date;not null;index" json:"date" form:"date"`
	Sender  string    `gorm:"column:sender;size:1000;not null" json:"sender" form:"sender"`
	Person  string    `gorm:"column:person;size:1000" json:"person" form:"person"`
	Content string    `gorm:"column:content;size:4000;not null" json:"content" form:"content"`
	Comment string    `gorm:"column:comment;size:4000" json:"comment" form:"comment"`
	Type    string    `gorm:"column:type;size:100" json:"type" form:"type"`
}

// TableName IncomingMail's table name
func (*IncomingMail) TableName() string {
	return TableNameIncomingMail
}

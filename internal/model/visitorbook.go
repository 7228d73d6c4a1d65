package model

import "time"

const (
	TableNameVisitorbook         = "visitorbook"
	TableNameVisitorbookEntry    = "visitorbook_entry"
	TableNameVisitorbookEmployee = "visitorbook_employee"
)

// Visitorbook mapped from table <visitorbook>
type Visitorbook struct {
	Audit
	Firstname      string                `gorm:"column:firstname;size:30" json:"firstname" form:"firstname"`
	Lastname       string                `gorm:"column:lastname;size:30;not null" json:"lastname" form:"lastname"`
	Company        string                `gorm:"column:company;size:100" json:"company" form:"company"`
	VisitorType    string                `gorm:"column:visitor_type;size:30" json:"visitorType" form:"visitorType"`
	Entries        []VisitorbookEntry    `gorm:"foreignKey:VisitorbookID;constraint:OnDelete:CASCADE" json:"entries"`
	ContactPersons []VisitorbookEmployee `gorm:"foreignKey:VisitorbookID;constraint:OnDelete:CASCADE" json:"contactPersons"`
}

// TableName Visitorbook's table name
func (*Visitorbook) TableName() string {
	return TableNameVisitorbook
}

// VisitorbookEntry mapped from table <visitorbook_entry>
type VisitorbookEntry struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	VisitorbookID int64     `gorm:"column:visitorbook_id;not null;index" json:"visitorbookId" form:"visitorbookId"`
	DateOfVisit   time.Time `gorm:"column:date_of_visit;not null;index" json:"dateOfVisit" form:"dateOfVisit"`
	Arrived       string    `gorm:"column:arrived;size:5" json:"arrived" form:"arrived"`
	Departed      string    `gorm:"column:departed;size:5" json:"departed" form:"departed"`
	Comment       string    `gorm:"column:comment;size:4000" json:"comment" form:"comment"`
}

// TableName VisitorbookEntry's table name
func (*VisitorbookEntry) TableName() string {
	return TableNameVisitorbookEntry
}

// VisitorbookEmployee mapped from table <visitorbook_employee>
type VisitorbookEmployee struct {
	ID            int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	VisitorbookID int64 `gorm:"column:visitorbook_id;not null;uniqueIndex:idx_visitorbook_employee" json:"visitorbookId" form:"visitorbookId"`
	UID           int64 `gorm:"column:uid;not null;uniqueIndex:idx_visitorbook_employee" json:"uid" form:"uid"`
}

// TableName VisitorbookEmployee's table name
func (*VisitorbookEmployee) TableName() string {
	return TableNameVisitorbookEmployee
}

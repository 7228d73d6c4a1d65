package dto

import "github.com/haierkeys/projectforge-office-service/pkg/timex"

// VisitorbookListRequest 访客列表参数，日期格式 2006-01-02
type VisitorbookListRequest struct {
	ListRequest
	SearchString          string `json:"searchString" form:"searchString"`
	StartTime             string `json:"startTime" form:"startTime" binding:"omitempty,datetime=2006-01-02"`
	EndTime               string `json:"endTime" form:"endTime" binding:"omitempty,datetime=2006-01-02"`
	ShowOnlyActiveEntries bool   `json:"showOnlyActiveEntries" form:"showOnlyActiveEntries"`
	Deleted               bool   `json:"deleted" form:"deleted"`
}

// VisitorbookEntryRequest 一次来访
type VisitorbookEntryRequest struct {
	ID          int64      `json:"id" form:"id"`
	DateOfVisit timex.Time `json:"dateOfVisit" form:"dateOfVisit"`
	Arrived     string     `json:"arrived" form:"arrived" binding:"omitempty,datetime=15:04"`
	Departed    string     `json:"departed" form:"departed" binding:"omitempty,datetime=15:04"`
	Comment     string     `json:"comment" form:"comment" binding:"max=4000"`
}

// VisitorbookSaveRequest 访客新建/修改参数
type VisitorbookSaveRequest struct {
	EditToken        string                    `json:"editToken" form:"editToken" binding:"required"`
	ID               int64                     `json:"id" form:"id" binding:"omitempty,min=0"`
	Firstname        string                    `json:"firstname" form:"firstname" binding:"max=30"`
	Lastname         string                    `json:"lastname" form:"lastname" binding:"required,notblank,max=30"`
	Company          string                    `json:"company" form:"company" binding:"max=100"`
	VisitorType      string                    `json:"visitorType" form:"visitorType" binding:"omitempty,oneof=visitor former_employee applicant"`
	ContactPersonIDs []int64                   `json:"contactPersonIds" form:"contactPersonIds"`
	Entries          []VisitorbookEntryRequest `json:"entries" form:"entries" binding:"dive"`
}

// VisitorbookEntryDTO 一次来访
type VisitorbookEntryDTO struct {
	ID          int64      `json:"id"`
	DateOfVisit timex.Time `json:"dateOfVisit"`
	Arrived     string     `json:"arrived"`
	Departed    string     `json:"departed"`
	Comment     string     `json:"comment"`
}

// ContactPersonDTO 访客的联系人
type ContactPersonDTO struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
}

// VisitorbookDTO 访客，LastDateOfVisit/Arrived/Departed 取自最近一次来访
type VisitorbookDTO struct {
	ID              int64                 `json:"id"`
	Created         timex.Time            `json:"created"`
	LastUpdate      timex.Time            `json:"lastUpdate"`
	Deleted         bool                  `json:"deleted"`
	Firstname       string                `json:"firstname"`
	Lastname        string                `json:"lastname"`
	Company         string                `json:"company"`
	VisitorType     string                `json:"visitorType"`
	ContactPersons  []ContactPersonDTO    `json:"contactPersons"`
	Entries         []VisitorbookEntryDTO `json:"entries"`
	LastDateOfVisit *timex.Time           `json:"lastDateOfVisit"`
	Arrived         string                `json:"arrived"`
	Departed        string                `json:"departed"`
	Active          bool                  `json:"active"`
}

// VisitorbookFilterDTO 保存的访客过滤条件
type VisitorbookFilterDTO struct {
	SearchString          string `json:"searchString"`
	StartTime             string `json:"startTime"`
	EndTime               string `json:"endTime"`
	ShowOnlyActiveEntries bool   `json:"showOnlyActiveEntries"`
	Deleted               bool   `json:"deleted"`
}

// IsNew ID 为 0 时新建
func (r *VisitorbookSaveRequest) IsNew() bool { return r.ID == 0 }

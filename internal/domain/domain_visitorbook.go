package domain

import (
	"sort"
	"time"
)

// VisitorType 访客类型
type VisitorType string

const (
	VisitorTypeVisitor        VisitorType = "visitor"
	VisitorTypeFormerEmployee VisitorType = "former_employee"
	VisitorTypeApplicant      VisitorType = "applicant"
)

var VisitorTypes = []VisitorType{VisitorTypeVisitor, VisitorTypeFormerEmployee, VisitorTypeApplicant}

func (t VisitorType) Valid() bool {
	if t == "" {
		return true
	}
	for _, v := range VisitorTypes {
		if v == t {
			return true
		}
	}
	return false
}

// VisitorbookEntry 一次来访，Arrived/Departed 为 "HH:MM"
type VisitorbookEntry struct {
	ID          int64
	DateOfVisit time.Time
	Arrived     string
	Departed    string
	Comment     string
}

// Visitorbook 访客及其来访记录
type Visitorbook struct {
	Audit
	Firstname        string
	Lastname         string
	Company          string
	VisitorType      VisitorType
	ContactPersonIDs []int64
	Entries          []*VisitorbookEntry
}

// LatestEntry 最近一次来访，没有来访记录时返回 nil
func (v *Visitorbook) LatestEntry() *VisitorbookEntry {
	var latest *VisitorbookEntry
	for _, e := range v.Entries {
		if latest == nil || e.DateOfVisit.After(latest.DateOfVisit) ||
			(e.DateOfVisit.Equal(latest.DateOfVisit) && e.Arrived > latest.Arrived) {
			latest = e
		}
	}
	return latest
}

// LastDateOfVisit 最近来访日期
func (v *Visitorbook) LastDateOfVisit() *time.Time {
	if e := v.LatestEntry(); e != nil {
		d := e.DateOfVisit
		return &d
	}
	return nil
}

// Arrived 最近一次来访的到达时间
func (v *Visitorbook) Arrived() string {
	if e := v.LatestEntry(); e != nil {
		return e.Arrived
	}
	return ""
}

// Departed 最近一次来访的离开时间
func (v *Visitorbook) Departed() string {
	if e := v.LatestEntry(); e != nil {
		return e.Departed
	}
	return ""
}

// IsActive 最近一次来访尚未登记离开
func (v *Visitorbook) IsActive() bool {
	e := v.LatestEntry()
	return e != nil && e.Departed == ""
}

// SortEntries 按来访日期倒序排列
func (v *Visitorbook) SortEntries() {
	sort.SliceStable(v.Entries, func(i, j int) bool {
		a, b := v.Entries[i], v.Entries[j]
		if !a.DateOfVisit.Equal(b.DateOfVisit) {
			return a.DateOfVisit.After(b.DateOfVisit)
		}
		return a.Arrived > b.Arrived
	})
}

// VisitorbookFilter 访客列表过滤条件
type VisitorbookFilter struct {
	SearchString          string
	StartTime             *time.Time
	EndTime               *time.Time
	ShowOnlyActiveEntries bool
	Deleted               bool
}

func (f *VisitorbookFilter) Reset() {
	*f = VisitorbookFilter{}
}

// VisitorbookRepository 访客仓储接口
type VisitorbookRepository interface {
	BaseRepository[*Visitorbook, VisitorbookFilter]
}

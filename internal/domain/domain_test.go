package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilters_Reset(t *testing.T) {
	now := time.Now()

	cf := ContractFilter{SearchString: "lease", Year: 2024, Status: ContractStatusSigned, Type: "rent", Deleted: true}
	cf.Reset()
	assert.Equal(t, ContractFilter{}, cf)

	mf := MailListFilter{SearchString: "x", Year: 2024, Month: 3, Deleted: true}
	mf.Reset()
	assert.Equal(t, MailListFilter{}, mf)

	vf := VisitorbookFilter{SearchString: "x", StartTime: &now, EndTime: &now, ShowOnlyActiveEntries: true, Deleted: true}
	vf.Reset()
	assert.Equal(t, VisitorbookFilter{}, vf)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, ContractStatus("").Valid())
	assert.True(t, ContractStatusSigned.Valid())
	assert.False(t, ContractStatus("lost").Valid())
	assert.True(t, MailTypeFax.Valid())
	assert.False(t, MailType("pigeon").Valid())
	assert.True(t, VisitorTypeApplicant.Valid())
	assert.False(t, VisitorType("vip").Valid())
}

func TestContract_DueOn(t *testing.T) {
	day := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)
	due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local)
	other := due.AddDate(0, 0, 1)

	assert.True(t, (&Contract{DueDate: &due}).DueOn(day))
	assert.True(t, (&Contract{ResubmissionOnDate: &due, DueDate: &other}).DueOn(day))
	assert.False(t, (&Contract{DueDate: &other}).DueOn(day))
	assert.False(t, (&Contract{}).DueOn(day))
}

func TestVisitorbook_Derived(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	d2 := d1.AddDate(0, 1, 0)
	v := &Visitorbook{Entries: []*VisitorbookEntry{
		{DateOfVisit: d1, Arrived: "09:00", Departed: "10:00"},
		{DateOfVisit: d2, Arrived: "08:00", Departed: ""},
		{DateOfVisit: d2, Arrived: "07:00", Departed: "07:30"},
	}}

	assert.Equal(t, d2, *v.LastDateOfVisit())
	assert.Equal(t, "08:00", v.Arrived())
	assert.Equal(t, "", v.Departed())
	assert.True(t, v.IsActive())

	v.SortEntries()
	assert.Equal(t, "08:00", v.Entries[0].Arrived)
	assert.Equal(t, "09:00", v.Entries[2].Arrived)

	empty := &Visitorbook{}
	assert.Nil(t, empty.LastDateOfVisit())
	assert.False(t, empty.IsActive())
}

func TestDiffProperties(t *testing.T) {
	d := time.Date(2024, 1, 1, 10, 0, 0, 500, time.UTC)
	d2 := d.Truncate(time.Second).In(time.Local)

	old := &Contract{Audit: Audit{ID: 1, LastUpdate: d}, Title: "Lease", Number: 4, ValidFrom: &d}
	same := &Contract{Audit: Audit{ID: 1, LastUpdate: d.Add(time.Hour)}, Title: "Lease", Number: 4, ValidFrom: &d2}
	assert.Empty(t, DiffProperties(old, same))

	changed := &Contract{Audit: Audit{ID: 1}, Title: "Lease 2", Number: 4, Status: ContractStatusSigned}
	changes := DiffProperties(old, changed)
	assert.ElementsMatch(t, []PropertyChange{
		{Property: "title", Old: "Lease", New: "Lease 2"},
		{Property: "validFrom", Old: "2024-01-01T10:00:00Z", New: ""},
		{Property: "status", Old: "", New: "signed"},
	}, changes)

	v1 := &Visitorbook{ContactPersonIDs: []int64{1, 2}, Entries: []*VisitorbookEntry{{ID: 1, DateOfVisit: d, Arrived: "09:00"}}}
	v2 := &Visitorbook{ContactPersonIDs: []int64{1, 2}, Entries: []*VisitorbookEntry{{ID: 9, DateOfVisit: d, Arrived: "09:00"}}}
	assert.Empty(t, DiffProperties(v1, v2))
	v2.Entries[0].Departed = "11:00"
	assert.Len(t, DiffProperties(v1, v2), 1)
}

package dao

import (
	"context"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
)

type visitorbookRepository struct {
	baseRepository[model.Visitorbook, *model.Visitorbook, *domain.Visitorbook, domain.VisitorbookFilter]
}

// NewVisitorbookRepository 创建访客仓储
func NewVisitorbookRepository(dao *Dao) domain.VisitorbookRepository {
	r := &visitorbookRepository{}
	r.baseRepository = baseRepository[model.Visitorbook, *model.Visitorbook, *domain.Visitorbook, domain.VisitorbookFilter]{
		dao:    dao,
		entity: domain.EntityVisitorbook,
		tables: []string{
			model.TableNameVisitorbook,
			model.TableNameVisitorbookEntry,
			model.TableNameVisitorbookEmployee,
		},
		defaultOrder: "id DESC",
		preload:      []string{"Entries", "ContactPersons"},
		autocomplete: map[string]string{
			"company":   "company",
			"firstname": "firstname",
			"lastname":  "lastname",
		},
		toDomain:     visitorbookToDomain,
		toModel:      visitorbookToModel,
		applyFilter:  visitorbookFilter,
		postFilter:   visitorbookPostFilter,
		saveChildren: saveVisitorbookChildren,
	}
	return r
}

func visitorbookToDomain(m *model.Visitorbook) *domain.Visitorbook {
	if m == nil {
		return nil
	}
	v := &domain.Visitorbook{
		Audit:            auditToDomain(m.Audit),
		Firstname:        m.Firstname,
		Lastname:         m.Lastname,
		Company:          m.Company,
		VisitorType:      domain.VisitorType(m.VisitorType),
		ContactPersonIDs: make([]int64, 0, len(m.ContactPersons)),
		Entries:          make([]*domain.VisitorbookEntry, 0, len(m.Entries)),
	}
	for _, c := range m.ContactPersons {
		v.ContactPersonIDs = append(v.ContactPersonIDs, c.UID)
	}
	for _, e := range m.Entries {
		v.Entries = append(v.Entries, &domain.VisitorbookEntry{
			ID:          e.ID,
			DateOfVisit: e.DateOfVisit,
			Arrived:     e.Arrived,
			Departed:    e.Departed,
			Comment:     e.Comment,
		})
	}
	v.SortEntries()
	return v
}

func visitorbookToModel(v *domain.Visitorbook) *model.Visitorbook {
	if v == nil {
		return nil
	}
	m := &model.Visitorbook{
		Audit:       auditToModel(v.Audit),
		Firstname:   v.Firstname,
		Lastname:    v.Lastname,
		Company:     v.Company,
		VisitorType: string(v.VisitorType),
	}
	for _, uid := range v.ContactPersonIDs {
		m.ContactPersons = append(m.ContactPersons, model.VisitorbookEmployee{VisitorbookID: v.ID, UID: uid})
	}
	for _, e := range v.Entries {
		m.Entries = append(m.Entries, model.VisitorbookEntry{
			ID:            e.ID,
			VisitorbookID: v.ID,
			DateOfVisit:   e.DateOfVisit,
			Arrived:       e.Arrived,
			Departed:      e.Departed,
			Comment:       e.Comment,
		})
	}
	return m
}

func visitorbookFilter(db *gorm.DB, f domain.VisitorbookFilter) *gorm.DB {
	db = db.Where("deleted = ?", f.Deleted)
	if f.StartTime != nil || f.EndTime != nil {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.VisitorbookEntry{}).
			Select("visitorbook_id")
		if f.StartTime != nil {
			sub = sub.Where("date_of_visit >= ?", timex.StartOfDay(*f.StartTime))
		}
		if f.EndTime != nil {
			_, end := timex.DayRange(*f.EndTime)
			sub = sub.Where("date_of_visit < ?", end)
		}
		db = db.Where("id IN (?)", sub)
	}
	return searchScope(db, f.SearchString, "firstname", "lastname", "company")
}

func visitorbookPostFilter(v *domain.Visitorbook, f domain.VisitorbookFilter) bool {
	if f.ShowOnlyActiveEntries {
		return v.IsActive()
	}
	return true
}

// saveVisitorbookChildren 按主表当前内容重写来访记录与联系人
func saveVisitorbookChildren(tx *gorm.DB, m *model.Visitorbook) error {
	keep := make([]int64, 0, len(m.Entries))
	for _, e := range m.Entries {
		if e.ID != 0 {
			keep = append(keep, e.ID)
		}
	}
	del := tx.Where("visitorbook_id = ?", m.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&model.VisitorbookEntry{}).Error; err != nil {
		return err
	}
	for i := range m.Entries {
		e := &m.Entries[i]
		e.VisitorbookID = m.ID
		if e.ID == 0 {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
			continue
		}
		// 只改写属于当前访客的记录
		err := tx.Model(&model.VisitorbookEntry{}).
			Where("id = ? AND visitorbook_id = ?", e.ID, m.ID).
			Select("date_of_visit", "arrived", "departed", "comment").
			Updates(e).Error
		if err != nil {
			return err
		}
	}

	if err := tx.Where("visitorbook_id = ?", m.ID).Delete(&model.VisitorbookEmployee{}).Error; err != nil {
		return err
	}
	if len(m.ContactPersons) == 0 {
		return nil
	}
	for i := range m.ContactPersons {
		m.ContactPersons[i].ID = 0
		m.ContactPersons[i].VisitorbookID = m.ID
	}
	return tx.Create(&m.ContactPersons).Error
}

// GetYears 来访日期覆盖的年份，新的在前
func (r *visitorbookRepository) GetYears(ctx context.Context) ([]int, error) {
	edge := func(order string) (*time.Time, error) {
		var dates []timex.Time
		err := r.db(ctx).Model(&model.VisitorbookEntry{}).
			Joins("JOIN "+model.TableNameVisitorbook+" ON "+model.TableNameVisitorbook+".id = "+model.TableNameVisitorbookEntry+".visitorbook_id").
			Where(model.TableNameVisitorbook+".deleted = ?", false).
			Order(model.TableNameVisitorbookEntry+".date_of_visit "+order).
			Limit(1).
			Pluck(model.TableNameVisitorbookEntry+".date_of_visit", &dates).Error
		if err != nil || len(dates) == 0 || dates[0].IsZero() {
			return nil, err
		}
		t := dates[0].Time()
		return &t, nil
	}
	first, err := edge("ASC")
	if err != nil || first == nil {
		return []int{}, err
	}
	last, err := edge("DESC")
	if err != nil || last == nil {
		return []int{}, err
	}
	return yearSpan(*first, *last), nil
}

var _ domain.VisitorbookRepository = (*visitorbookRepository)(nil)

package dao

import (
	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
)

type outgoingMailRepository struct {
	baseRepository[model.OutgoingMail, *model.OutgoingMail, *domain.OutgoingMail, domain.MailListFilter]
}

// NewOutgoingMailRepository 创建发件仓储
func NewOutgoingMailRepository(dao *Dao) domain.OutgoingMailRepository {
	r := &outgoingMailRepository{}
	r.baseRepository = baseRepository[model.OutgoingMail, *model.OutgoingMail, *domain.OutgoingMail, domain.MailListFilter]{
		dao:          dao,
		entity:       domain.EntityOutgoingMail,
		tables:       []string{model.TableNameOutgoingMail},
		dateColumn:   "date",
		defaultOrder: "date DESC, id DESC",
		autocomplete: map[string]string{
			"receiver": "receiver",
			"person":   "person",
		},
		toDomain: func(m *model.OutgoingMail) *domain.OutgoingMail {
			return &domain.OutgoingMail{
				Audit:    auditToDomain(m.Audit),
				Date:     m.Date,
				Receiver: m.Receiver,
				Person:   m.Person,
				Content:  m.Content,
				Comment:  m.Comment,
				Type:     domain.MailType(m.Type),
			}
		},
		toModel: func(d *domain.OutgoingMail) *model.OutgoingMail {
			return &model.OutgoingMail{
				Audit:    auditToModel(d.Audit),
				Date:     d.Date,
				Receiver: d.Receiver,
				Person:   d.Person,
				Content:  d.Content,
				Comment:  d.Comment,
				Type:     string(d.Type),
			}
		},
		applyFilter: mailFilter("receiver", "person", "content", "comment"),
	}
	return r
}

type incomingMailRepository struct {
	baseRepository[model.IncomingMail, *model.IncomingMail, *domain.IncomingMail, domain.MailListFilter]
}

// NewIncomingMailRepository 创建收件仓储
func NewIncomingMailRepository(dao *Dao) domain.IncomingMailRepository {
	r := &incomingMailRepository{}
	r.baseRepository = baseRepository[model.IncomingMail, *model.IncomingMail, *domain.IncomingMail, domain.MailListFilter]{
		dao:          dao,
		entity:       domain.EntityIncomingMail,
		tables:       []string{model.TableNameIncomingMail},
		dateColumn:   "date",
		defaultOrder: "date DESC, id DESC",
		autocomplete: map[string]string{
			"sender": "sender",
			"person": "person",
		},
		toDomain: func(m *model.IncomingMail) *domain.IncomingMail {
			return &domain.IncomingMail{
				Audit:   auditToDomain(m.Audit),
				Date:    m.Date,
				Sender:  m.Sender,
				Person:  m.Person,
				Content: m.Content,
				Comment: m.Comment,
				Type:    domain.MailType(m.Type),
			}
		},
		toModel: func(d *domain.IncomingMail) *model.IncomingMail {
			return &model.IncomingMail{
				Audit:   auditToModel(d.Audit),
				Date:    d.Date,
				Sender:  d.Sender,
				Person:  d.Person,
				Content: d.Content,
				Comment: d.Comment,
				Type:    string(d.Type),
			}
		},
		applyFilter: mailFilter("sender", "person", "content", "comment"),
	}
	return r
}

// mailFilter 收发件共用的过滤条件
func mailFilter(searchColumns ...string) func(db *gorm.DB, f domain.MailListFilter) *gorm.DB {
	return func(db *gorm.DB, f domain.MailListFilter) *gorm.DB {
		db = db.Where("deleted = ?", f.Deleted)
		if f.Year > 0 {
			if f.Month >= 1 && f.Month <= 12 {
				start, end := timex.MonthRange(f.Year, f.Month)
				db = dateRangeScope(db, "date", start, end)
			} else {
				start, end := timex.YearRange(f.Year)
				db = dateRangeScope(db, "date", start, end)
			}
		}
		return searchScope(db, f.SearchString, searchColumns...)
	}
}

var (
	_ domain.OutgoingMailRepository = (*outgoingMailRepository)(nil)
	_ domain.IncomingMailRepository = (*incomingMailRepository)(nil)
)

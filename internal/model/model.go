// Package model 定义数据库表结构
package model

import (
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
)

// Audit 可审计表的公共列
type Audit struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Created    timex.Time `gorm:"column:created;not null" json:"created" form:"created"`
	LastUpdate timex.Time `gorm:"column:last_update;not null" json:"lastUpdate" form:"lastUpdate"`
	Deleted    bool       `gorm:"column:deleted;not null;default:false;index" json:"deleted" form:"deleted"`
}

// GetID 主键
func (a *Audit) GetID() int64 {
	return a.ID
}

// AuditColumns 返回审计列，供通用仓储读写
func (a *Audit) AuditColumns() *Audit {
	return a
}

// registry 表名 -> 模型，用于按需迁移
var registry = map[string]interface{}{
	TableNameUser:                &User{},
	TableNameUserPref:            &UserPref{},
	TableNameContract:            &Contract{},
	TableNameOutgoingMail:        &OutgoingMail{},
	TableNameIncomingMail:        &IncomingMail{},
	TableNameVisitorbook:         &Visitorbook{},
	TableNameVisitorbookEntry:    &VisitorbookEntry{},
	TableNameVisitorbookEmployee: &VisitorbookEmployee{},
	TableNameHistoryEntry:        &HistoryEntry{},
}

// Tables 所有表名，按迁移顺序
var Tables = []string{
	TableNameUser,
	TableNameUserPref,
	TableNameContract,
	TableNameOutgoingMail,
	TableNameIncomingMail,
	TableNameVisitorbook,
	TableNameVisitorbookEntry,
	TableNameVisitorbookEmployee,
	TableNameHistoryEntry,
}

// AutoMigrate 迁移指定的表，不指定时迁移全部
func AutoMigrate(db *gorm.DB, tables ...string) error {
	if len(tables) == 0 {
		tables = Tables
	}
	for _, name := range tables {
		m, ok := registry[name]
		if !ok {
			continue
		}
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

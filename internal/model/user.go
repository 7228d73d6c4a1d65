package model

import "github.com/haierkeys/projectforge-office-service/pkg/timex"

const (
	TableNameUser         = "user"
	TableNameUserPref     = "user_pref"
	TableNameHistoryEntry = "history_entry"
)

// User mapped from table <user>
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email     string     `gorm:"column:email;size:255;index" json:"email" form:"email"`
	Username  string     `gorm:"column:username;size:255;uniqueIndex" json:"username" form:"username"`
	Password  string     `gorm:"column:password;size:255" json:"-" form:"password"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}

// UserPref mapped from table <user_pref>
type UserPref struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;uniqueIndex:idx_user_pref" json:"uid" form:"uid"`
	ListKey   string     `gorm:"column:list_key;size:100;not null;uniqueIndex:idx_user_pref" json:"listKey" form:"listKey"`
	Value     string     `gorm:"column:value;type:text" json:"value" form:"value"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName UserPref's table name
func (*UserPref) TableName() string {
	return TableNameUserPref
}

// HistoryEntry mapped from table <history_entry>
type HistoryEntry struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	EntityType string     `gorm:"column:entity_type;size:50;not null;index:idx_history_entity,priority:1" json:"entityType" form:"entityType"`
	EntityID   int64      `gorm:"column:entity_id;not null;index:idx_history_entity,priority:2" json:"entityId" form:"entityId"`
	UID        int64      `gorm:"column:uid;not null" json:"uid" form:"uid"`
	Property   string     `gorm:"column:property;size:100;not null" json:"property" form:"property"`
	OldValue   string     `gorm:"column:old_value;type:text" json:"oldValue" form:"oldValue"`
	NewValue   string     `gorm:"column:new_value;type:text" json:"newValue" form:"newValue"`
	Diff       string     `gorm:"column:diff;type:text" json:"diff" form:"diff"`
	CreatedAt  timex.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName HistoryEntry's table name
func (*HistoryEntry) TableName() string {
	return TableNameHistoryEntry
}

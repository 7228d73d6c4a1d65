package domain

import (
	"context"
	"time"
)

// 实体类型，同时用作列表键、写队列 lane 与历史记录的 entity_type
const (
	EntityContract     = "contract"
	EntityOutgoingMail = "outgoing_mail"
	EntityIncomingMail = "incoming_mail"
	EntityVisitorbook  = "visitorbook"
)

// Audit 所有可审计实体的公共字段
type Audit struct {
	ID         int64
	Created    time.Time
	LastUpdate time.Time
	Deleted    bool
}

func (a *Audit) GetID() int64 {
	return a.ID
}

func (a *Audit) SetID(id int64) {
	a.ID = id
}

func (a *Audit) IsDeleted() bool {
	return a.Deleted
}

// AuditAccessor returns the audit fields of an entity.
func (a *Audit) AuditAccessor() *Audit {
	return a
}

// Entity 可审计实体
type Entity interface {
	GetID() int64
	SetID(id int64)
	IsDeleted() bool
	AuditAccessor() *Audit
}

// BaseRepository 通用持久化接口
// T 为实体指针类型，F 为过滤条件
type BaseRepository[T Entity, F any] interface {
	// Find 根据 ID 获取记录（包含已删除），不存在时返回 gorm.ErrRecordNotFound
	Find(ctx context.Context, id int64) (T, error)

	// Select 根据 ID 列表批量获取，顺序任意，不存在的 ID 被忽略
	Select(ctx context.Context, ids []int64) ([]T, error)

	// Insert 新建记录，返回新 ID
	Insert(ctx context.Context, obj T) (int64, error)

	// Update 更新记录，内容没有变化时返回 false 且不写库
	Update(ctx context.Context, obj T) (bool, error)

	// MarkAsDeleted 标记删除
	MarkAsDeleted(ctx context.Context, id int64) error

	// Undelete 取消删除标记
	Undelete(ctx context.Context, id int64) error

	// GetList 返回符合过滤条件的全部记录
	GetList(ctx context.Context, filter F) ([]T, error)

	// GetYears 返回日期列覆盖的年份，新的在前
	GetYears(ctx context.Context) ([]int, error)

	// GetAutocompletion 返回指定属性中包含 input 的不同取值，最多 30 个
	GetAutocompletion(ctx context.Context, property, input string) ([]string, error)
}

// ErrUnknownProperty 自动补全属性不在白名单中
type ErrUnknownProperty struct {
	Property string
}

func (e *ErrUnknownProperty) Error() string {
	return "unknown property: " + e.Property
}

package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// AutocompleteLimit 自动补全最多返回的条数
const AutocompleteLimit = 30

// selectChunk IN 查询每批的 ID 数，低于 sqlite 的变量上限
const selectChunk = 500

// ErrIDAlreadySet 新建的对象已经带有 ID
var ErrIDAlreadySet = errors.New("dao: insert of an object that already has an id")

// auditModel 嵌入 model.Audit 的表模型指针
type auditModel[M any] interface {
	*M
	AuditColumns() *model.Audit
}

// baseRepository 可审计实体的通用 gorm 实现
// M 为表模型，D 为领域实体指针，F 为过滤条件
type baseRepository[M any, PM auditModel[M], D domain.Entity, F any] struct {
	dao    *Dao
	entity string
	// tables 首次使用时迁移的表
	tables []string
	// dateColumn GetYears 统计的日期列
	dateColumn string
	// autocomplete 属性名 -> 列名
	autocomplete map[string]string
	preload      []string
	defaultOrder string

	toDomain func(m *M) D
	toModel  func(d D) *M
	// applyFilter 把过滤条件转换为查询条件
	applyFilter func(db *gorm.DB, f F) *gorm.DB
	// postFilter 在内存中进一步过滤，可为空
	postFilter func(d D, f F) bool
	// saveChildren 保存主表后同步子表，可为空
	saveChildren func(tx *gorm.DB, m *M) error
}

func (r *baseRepository[M, PM, D, F]) db(ctx context.Context) *gorm.DB {
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		if err := model.AutoMigrate(g, r.tables...); err != nil {
			r.dao.Logger().Error("auto migrate failed", zap.String(logger.FieldEntity, r.entity), zap.Error(err))
		}
	}, r.entity).WithContext(ctx)
}

func (r *baseRepository[M, PM, D, F]) withPreload(db *gorm.DB) *gorm.DB {
	for _, p := range r.preload {
		db = db.Preload(p)
	}
	return db
}

// Find 根据 ID 获取记录，包含已删除的记录
func (r *baseRepository[M, PM, D, F]) Find(ctx context.Context, id int64) (D, error) {
	return r.find(r.db(ctx), id)
}

func (r *baseRepository[M, PM, D, F]) find(db *gorm.DB, id int64) (D, error) {
	var zero D
	m := new(M)
	if err := r.withPreload(db).Where("id = ?", id).First(m).Error; err != nil {
		return zero, err
	}
	return r.toDomain(m), nil
}

// Select 根据 ID 列表批量获取
func (r *baseRepository[M, PM, D, F]) Select(ctx context.Context, ids []int64) ([]D, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	result := make([]D, 0, len(ids))
	for start := 0; start < len(ids); start += selectChunk {
		end := min(start+selectChunk, len(ids))
		var ms []*M
		if err := r.withPreload(r.db(ctx)).Where("id IN ?", ids[start:end]).Find(&ms).Error; err != nil {
			return nil, err
		}
		for _, m := range ms {
			result = append(result, r.toDomain(m))
		}
	}
	return result, nil
}

// Insert 新建记录
func (r *baseRepository[M, PM, D, F]) Insert(ctx context.Context, obj D) (int64, error) {
	if obj.GetID() != 0 {
		return 0, ErrIDAlreadySet
	}
	now := time.Now()
	a := obj.AuditAccessor()
	a.Created, a.LastUpdate = now, now

	m := r.toModel(obj)
	r.db(ctx)
	err := r.dao.ExecuteWrite(ctx, r.entity, func(ctx context.Context, db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
				return err
			}
			if r.saveChildren != nil {
				return r.saveChildren(tx, m)
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	id := PM(m).AuditColumns().ID
	obj.SetID(id)
	return id, nil
}

// Update 更新记录，内容没有变化时不写库
func (r *baseRepository[M, PM, D, F]) Update(ctx context.Context, obj D) (bool, error) {
	modified := false
	err := r.dao.ExecuteWrite(ctx, r.entity, func(ctx context.Context, db *gorm.DB) error {
		old, err := r.find(r.db(ctx).Clauses(dbresolver.Write), obj.GetID())
		if err != nil {
			return err
		}
		if len(domain.DiffProperties(old, obj)) == 0 {
			return nil
		}
		oa, a := old.AuditAccessor(), obj.AuditAccessor()
		a.Created = oa.Created
		a.Deleted = oa.Deleted
		a.LastUpdate = time.Now()

		m := r.toModel(obj)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
				return err
			}
			if r.saveChildren != nil {
				return r.saveChildren(tx, m)
			}
			return nil
		})
		if err != nil {
			return err
		}
		modified = true
		return nil
	})
	return modified, err
}

// MarkAsDeleted 标记删除
func (r *baseRepository[M, PM, D, F]) MarkAsDeleted(ctx context.Context, id int64) error {
	return r.setDeleted(ctx, id, true)
}

// Undelete 取消删除标记
func (r *baseRepository[M, PM, D, F]) Undelete(ctx context.Context, id int64) error {
	return r.setDeleted(ctx, id, false)
}

func (r *baseRepository[M, PM, D, F]) setDeleted(ctx context.Context, id int64, deleted bool) error {
	r.db(ctx)
	return r.dao.ExecuteWrite(ctx, r.entity, func(ctx context.Context, db *gorm.DB) error {
		res := db.Model(PM(new(M))).Where("id = ?", id).Updates(map[string]interface{}{
			"deleted":     deleted,
			"last_update": timex.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetList 返回符合过滤条件的全部记录
func (r *baseRepository[M, PM, D, F]) GetList(ctx context.Context, filter F) ([]D, error) {
	db := r.withPreload(r.db(ctx))
	if r.applyFilter != nil {
		db = r.applyFilter(db, filter)
	}
	if r.defaultOrder != "" {
		db = db.Order(r.defaultOrder)
	}
	var ms []*M
	if err := db.Find(&ms).Error; err != nil {
		return nil, err
	}
	list := make([]D, 0, len(ms))
	for _, m := range ms {
		d := r.toDomain(m)
		if r.postFilter != nil && !r.postFilter(d, filter) {
			continue
		}
		list = append(list, d)
	}
	return list, nil
}

// GetYears 返回日期列覆盖的年份，新的在前
// 只取最早和最晚的日期，中间的年份全部列出
func (r *baseRepository[M, PM, D, F]) GetYears(ctx context.Context) ([]int, error) {
	first, err := r.edgeDate(ctx, r.dateColumn+" ASC")
	if err != nil || first == nil {
		return []int{}, err
	}
	last, err := r.edgeDate(ctx, r.dateColumn+" DESC")
	if err != nil || last == nil {
		return []int{}, err
	}
	return yearSpan(*first, *last), nil
}

// yearSpan 从 last 所在年份倒序到 first 所在年份
func yearSpan(first, last time.Time) []int {
	years := make([]int, 0, last.Year()-first.Year()+1)
	for y := last.Year(); y >= first.Year(); y-- {
		years = append(years, y)
	}
	return years
}

func (r *baseRepository[M, PM, D, F]) edgeDate(ctx context.Context, order string) (*time.Time, error) {
	var dates []timex.Time
	err := r.db(ctx).Model(PM(new(M))).
		Where("deleted = ?", false).
		Where(r.dateColumn+" IS NOT NULL").
		Order(order).
		Limit(1).
		Pluck(r.dateColumn, &dates).Error
	if err != nil || len(dates) == 0 || dates[0].IsZero() {
		return nil, err
	}
	t := dates[0].Time()
	return &t, nil
}

// GetAutocompletion 返回属性中包含 input 的不同取值
func (r *baseRepository[M, PM, D, F]) GetAutocompletion(ctx context.Context, property, input string) ([]string, error) {
	column, ok := r.autocomplete[property]
	if !ok {
		return nil, &domain.ErrUnknownProperty{Property: property}
	}
	values := []string{}
	err := r.db(ctx).Model(PM(new(M))).
		Distinct().
		Where("deleted = ?", false).
		Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(strings.TrimSpace(input))+"%").
		Where(column+" <> ?", "").
		Order(column).
		Limit(AutocompleteLimit).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// searchScope 任一列包含 search（不区分大小写）
func searchScope(db *gorm.DB, search string, columns ...string) *gorm.DB {
	cond, args := searchCondition(search, columns...)
	if cond == "" {
		return db
	}
	return db.Where("("+cond+")", args...)
}

// searchCondition 任一列包含 search (不区分大小写) 的 OR 条件，search 为空时返回空串
func searchCondition(search string, columns ...string) (string, []interface{}) {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return "", nil
	}
	pattern := "%" + strings.ToLower(search) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = pattern
	}
	return strings.Join(parts, " OR "), args
}

// dateRangeScope column 落在 [start, end) 内
func dateRangeScope(db *gorm.DB, column string, start, end time.Time) *gorm.DB {
	return db.Where(column+" >= ? AND "+column+" < ?", start, end)
}

// timePtr 复制时间指针
func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func auditToDomain(a model.Audit) domain.Audit {
	return domain.Audit{
		ID:         a.ID,
		Created:    a.Created.Time(),
		LastUpdate: a.LastUpdate.Time(),
		Deleted:    a.Deleted,
	}
}

func auditToModel(a domain.Audit) model.Audit {
	return model.Audit{
		ID:         a.ID,
		Created:    timex.Time(a.Created),
		LastUpdate: timex.Time(a.LastUpdate),
		Deleted:    a.Deleted,
	}
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/diff"
	"github.com/haierkeys/projectforge-office-service/pkg/editguard"
	"github.com/haierkeys/projectforge-office-service/pkg/listview"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// longTextLimit 超过该长度或包含换行的文本属性在历史记录中附带差异文本
const longTextLimit = 80

// EntityDeps 各实体服务共享的依赖
type EntityDeps struct {
	HistoryRepo domain.HistoryRepository
	UserRepo    domain.UserRepository
	PrefRepo    domain.UserPrefRepository
	Guard       *editguard.Registry
	Lists       *listview.Store
	Logger      *zap.Logger
}

// entityService 实体服务的公共部分：列表、编辑表单、保存、删除/恢复、年份、自动补全与历史
// D 为领域实体，F 为过滤条件，V 为返回给客户端的 DTO 指针
type entityService[D domain.Entity, F any, V any] struct {
	EntityDeps
	entity   string
	repo     domain.BaseRepository[D, F]
	toDTO    func(ctx context.Context, rows []D) ([]V, error)
	idOf     func(V) int64
	defaults func(ctx context.Context) (V, error)
	sf       singleflight.Group
}

func newEntityService[D domain.Entity, F any, V any](
	deps EntityDeps,
	entity string,
	repo domain.BaseRepository[D, F],
	toDTO func(ctx context.Context, rows []D) ([]V, error),
	idOf func(V) int64,
	defaults func(ctx context.Context) (V, error),
) *entityService[D, F, V] {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &entityService[D, F, V]{
		EntityDeps: deps,
		entity:     entity,
		repo:       repo,
		toDTO:      toDTO,
		idOf:       idOf,
		defaults:   defaults,
	}
}

// fail 记录非用户错误并转换为错误码
func (s *entityService[D, F, V]) fail(action string, uid, id int64, err error) error {
	c := toCodeError(err)
	if errors.Is(c, code.ErrorDBQuery) {
		s.Logger.Error("entity operation failed",
			zap.String(logger.FieldEntity, s.entity),
			zap.String(logger.FieldAction, action),
			zap.Int64(logger.FieldUID, uid),
			zap.Int64(logger.FieldEntityID, id),
			zap.Error(err),
		)
	}
	return c
}

func (s *entityService[D, F, V]) convertOne(ctx context.Context, obj D) (V, error) {
	out, err := s.toDTO(ctx, []D{obj})
	if err != nil || len(out) == 0 {
		var zero V
		return zero, err
	}
	return out[0], nil
}

// Get 获取单条记录，包含已删除的记录
func (s *entityService[D, F, V]) Get(ctx context.Context, id int64) (V, error) {
	var zero V
	obj, err := s.repo.Find(ctx, id)
	if err != nil {
		return zero, s.fail("get", 0, id, err)
	}
	v, err := s.convertOne(ctx, obj)
	if err != nil {
		return zero, s.fail("get", 0, id, err)
	}
	return v, nil
}

// Edit 打开编辑表单：签发新的表单令牌，id 为 0 时返回新建的默认值
func (s *entityService[D, F, V]) Edit(ctx context.Context, uid, id int64) (*dto.EditDTO, error) {
	var (
		data V
		err  error
	)
	if id > 0 {
		data, err = s.Get(ctx, id)
	} else {
		data, err = s.defaults(ctx)
	}
	if err != nil {
		return nil, err
	}
	token := s.Guard.Issue(editguard.Scope{UID: uid, Entity: s.entity, EntityID: id})
	return &dto.EditDTO{EditToken: token, Data: data}, nil
}

// save 在表单锁内新建或更新 obj
// check 在写入前执行，更新时 old 为数据库中的当前记录，新建时为零值
func (s *entityService[D, F, V]) save(ctx context.Context, uid int64, token string, obj D, check func(ctx context.Context, old D) error) (*dto.SaveResultDTO, error) {
	scope := editguard.Scope{UID: uid, Entity: s.entity, EntityID: obj.GetID()}
	result := &dto.SaveResultDTO{ID: obj.GetID()}

	err := s.Guard.Do(token, scope, func() error {
		var old D
		if obj.GetID() != 0 {
			var err error
			if old, err = s.repo.Find(ctx, obj.GetID()); err != nil {
				return err
			}
			if old.IsDeleted() {
				return code.ErrorRecordDeleted
			}
		}
		if check != nil {
			if err := check(ctx, old); err != nil {
				return err
			}
		}

		if obj.GetID() == 0 {
			id, err := s.repo.Insert(ctx, obj)
			if err != nil {
				return err
			}
			result.ID, result.Modified = id, true
			return nil
		}

		modified, err := s.repo.Update(ctx, obj)
		if err != nil {
			return err
		}
		result.Modified = modified
		if modified {
			s.recordChanges(ctx, uid, obj.GetID(), domain.DiffProperties(old, obj))
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("save", uid, obj.GetID(), err)
	}

	if result.Modified {
		s.Lists.RefreshList(s.entity)
	}
	return result, nil
}

// MarkAsDeleted 标记删除
func (s *entityService[D, F, V]) MarkAsDeleted(ctx context.Context, uid int64, params *dto.TokenIDRequest) error {
	return s.setDeleted(ctx, uid, params, true)
}

// Undelete 恢复已删除的记录
func (s *entityService[D, F, V]) Undelete(ctx context.Context, uid int64, params *dto.TokenIDRequest) error {
	return s.setDeleted(ctx, uid, params, false)
}

func (s *entityService[D, F, V]) setDeleted(ctx context.Context, uid int64, params *dto.TokenIDRequest, deleted bool) error {
	action := "undelete"
	if deleted {
		action = "delete"
	}
	scope := editguard.Scope{UID: uid, Entity: s.entity, EntityID: params.ID}

	err := s.Guard.Do(params.EditToken, scope, func() error {
		obj, err := s.repo.Find(ctx, params.ID)
		if err != nil {
			return err
		}
		switch {
		case deleted && obj.IsDeleted():
			return code.ErrorRecordDeleted
		case !deleted && !obj.IsDeleted():
			return code.ErrorRecordNotDeleted
		}

		if deleted {
			err = s.repo.MarkAsDeleted(ctx, params.ID)
		} else {
			err = s.repo.Undelete(ctx, params.ID)
		}
		if err != nil {
			return err
		}
		s.recordChanges(ctx, uid, params.ID, []domain.PropertyChange{{
			Property: "deleted",
			Old:      strconv.FormatBool(!deleted),
			New:      strconv.FormatBool(deleted),
		}})
		return nil
	})
	if err != nil {
		return s.fail(action, uid, params.ID, err)
	}

	s.Lists.RefreshList(s.entity)
	return nil
}

// recordChanges 写入历史记录，失败只记录日志
func (s *entityService[D, F, V]) recordChanges(ctx context.Context, uid, id int64, changes []domain.PropertyChange) {
	if s.HistoryRepo == nil || len(changes) == 0 {
		return
	}
	entries := make([]*domain.HistoryEntry, 0, len(changes))
	for _, c := range changes {
		e := &domain.HistoryEntry{
			EntityType: s.entity,
			EntityID:   id,
			UID:        uid,
			Property:   c.Property,
			OldValue:   c.Old,
			NewValue:   c.New,
		}
		if isLongText(c.Old) || isLongText(c.New) {
			e.Diff = diff.TextChange(c.Old, c.New).Pretty
		}
		entries = append(entries, e)
	}
	if err := s.HistoryRepo.Create(ctx, entries); err != nil {
		s.Logger.Warn("history write failed",
			zap.String(logger.FieldEntity, s.entity),
			zap.Int64(logger.FieldEntityID, id),
			zap.Int(logger.FieldCount, len(entries)),
			zap.Error(err),
		)
	}
}

func isLongText(s string) bool {
	return len([]rune(s)) > longTextLimit || strings.Contains(s, "\n")
}

// History 实体的变更历史，新的在前
func (s *entityService[D, F, V]) History(ctx context.Context, id int64) ([]*dto.HistoryEntryDTO, error) {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return nil, s.fail("history", 0, id, err)
	}
	entries, err := s.HistoryRepo.ListByEntity(ctx, s.entity, id)
	if err != nil {
		return nil, s.fail("history", 0, id, err)
	}

	names := s.usernames(ctx, entries)
	out := make([]*dto.HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dto.HistoryEntryDTO{
			ID:        e.ID,
			UID:       e.UID,
			Username:  names[e.UID],
			Property:  e.Property,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Diff:      e.Diff,
			CreatedAt: timex.Time(e.CreatedAt),
		})
	}
	return out, nil
}

func (s *entityService[D, F, V]) usernames(ctx context.Context, entries []*domain.HistoryEntry) map[int64]string {
	names := make(map[int64]string)
	if s.UserRepo == nil || len(entries) == 0 {
		return names
	}
	seen := make(map[int64]bool)
	uids := make([]int64, 0)
	for _, e := range entries {
		if !seen[e.UID] {
			seen[e.UID] = true
			uids = append(uids, e.UID)
		}
	}
	users, err := s.UserRepo.GetByUIDs(ctx, uids)
	if err != nil {
		s.Logger.Warn("history user lookup failed", zap.String(logger.FieldEntity, s.entity), zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.UID] = u.DisplayName()
	}
	return names
}

// Years 日期列覆盖的年份，新的在前
func (s *entityService[D, F, V]) Years(ctx context.Context) ([]int, error) {
	// 共享调用不跟随第一个调用方的取消
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do("years", func() (interface{}, error) {
		return s.repo.GetYears(shared)
	})
	if err != nil {
		return nil, s.fail("years", 0, 0, err)
	}
	return v.([]int), nil
}

// Autocomplete 属性的自动补全候选
func (s *entityService[D, F, V]) Autocomplete(ctx context.Context, params *dto.AutocompleteRequest) ([]string, error) {
	values, err := s.repo.GetAutocompletion(ctx, params.Property, strings.TrimSpace(params.Input))
	if err != nil {
		return nil, s.fail("autocomplete", 0, 0, err)
	}
	return values, nil
}

// listSource 把仓储适配为列表视图的数据源，行以 DTO 形式缓存和排序
type listSource[D domain.Entity, F any, V any] struct {
	s *entityService[D, F, V]
}

func (l listSource[D, F, V]) GetList(ctx context.Context, filter F) ([]V, error) {
	rows, err := l.s.repo.GetList(ctx, filter)
	if err != nil {
		return nil, err
	}
	return l.s.toDTO(ctx, rows)
}

func (l listSource[D, F, V]) Select(ctx context.Context, ids []int64) ([]V, error) {
	rows, err := l.s.repo.Select(ctx, ids)
	if err != nil {
		return nil, err
	}
	return l.s.toDTO(ctx, rows)
}

func (s *entityService[D, F, V]) provider(uid int64) *listview.Provider[V, F] {
	return listview.Load(s.Lists, uid, s.entity, func() *listview.Provider[V, F] {
		return listview.NewProvider[V, F](s.entity, listSource[D, F, V]{s: s}, s.idOf, s.Lists.Metrics())
	})
}

// list 设置过滤和排序后取一页，pager.TotalRows 被设置为结果总数
// 过滤条件变化时保存为用户偏好
func (s *entityService[D, F, V]) list(ctx context.Context, uid int64, filter F, req dto.ListRequest, pager *app.Pager) ([]V, error) {
	p := s.provider(uid)

	changed, err := p.SetFilter(filter)
	if err != nil {
		return nil, s.fail("list", uid, 0, err)
	}
	if err := p.SetSort(req.SortSpec()); err != nil {
		return nil, toCodeError(err)
	}
	if req.Refresh {
		p.Refresh()
	}

	rows, total, err := p.Page(ctx, pager.Offset(), pager.PageSize)
	if err != nil {
		return nil, s.fail("list", uid, 0, err)
	}
	pager.TotalRows = total

	if changed {
		s.saveFilter(ctx, uid, filter)
	}
	return rows, nil
}

func (s *entityService[D, F, V]) saveFilter(ctx context.Context, uid int64, filter F) {
	if s.PrefRepo == nil {
		return
	}
	b, err := sonic.Marshal(filter)
	if err == nil {
		err = s.PrefRepo.Save(ctx, &domain.UserPref{UID: uid, ListKey: s.entity, Value: b})
	}
	if err != nil {
		s.Logger.Warn("save list filter failed",
			zap.String(logger.FieldList, s.entity),
			zap.Int64(logger.FieldUID, uid),
			zap.Error(err),
		)
	}
}

// savedFilter 用户保存的过滤条件，没有保存过时 ok 为 false
func (s *entityService[D, F, V]) savedFilter(ctx context.Context, uid int64) (filter F, ok bool, err error) {
	pref, err := s.PrefRepo.Get(ctx, uid, s.entity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return filter, false, nil
	}
	if err != nil {
		return filter, false, s.fail("filter", uid, 0, err)
	}
	if err := sonic.Unmarshal(pref.Value, &filter); err != nil {
		s.Logger.Warn("saved list filter is unreadable",
			zap.String(logger.FieldList, s.entity),
			zap.Int64(logger.FieldUID, uid),
			zap.Error(err),
		)
		var zero F
		return zero, false, nil
	}
	return filter, true, nil
}

// ResetFilter 清空保存的过滤条件，并重置当前列表视图的过滤条件
func (s *entityService[D, F, V]) ResetFilter(ctx context.Context, uid int64) error {
	if err := s.PrefRepo.Delete(ctx, uid, s.entity); err != nil {
		return s.fail("filter", uid, 0, err)
	}
	p := s.provider(uid)
	filter := p.Filter()
	if r, ok := any(&filter).(interface{ Reset() }); ok {
		r.Reset()
	} else {
		var zero F
		filter = zero
	}
	if _, err := p.SetFilter(filter); err != nil {
		return s.fail("filter", uid, 0, err)
	}
	return nil
}

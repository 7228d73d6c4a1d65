package dao

import (
	"context"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
)

const laneHistory = "history"

// historyRepository 实现 domain.HistoryRepository 接口
type historyRepository struct {
	dao *Dao
}

// NewHistoryRepository 创建 HistoryRepository 实例
func NewHistoryRepository(dao *Dao) domain.HistoryRepository {
	return &historyRepository{dao: dao}
}

func (r *historyRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, model.TableNameHistoryEntry)
	}, laneHistory).WithContext(ctx)
}

func (r *historyRepository) toDomain(m *model.HistoryEntry) *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:         m.ID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		UID:        m.UID,
		Property:   m.Property,
		OldValue:   m.OldValue,
		NewValue:   m.NewValue,
		Diff:       m.Diff,
		CreatedAt:  m.CreatedAt.Time(),
	}
}

// Create 批量写入历史记录
func (r *historyRepository) Create(ctx context.Context, entries []*domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := timex.Now()
	ms := make([]*model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		created := timex.Time(e.CreatedAt)
		if created.IsZero() {
			created = now
		}
		ms = append(ms, &model.HistoryEntry{
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			UID:        e.UID,
			Property:   e.Property,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			Diff:       e.Diff,
			CreatedAt:  created,
		})
	}
	r.db(ctx)
	err := r.dao.ExecuteWrite(ctx, laneHistory, func(ctx context.Context, db *gorm.DB) error {
		return db.Create(&ms).Error
	})
	if err != nil {
		return err
	}
	for i, m := range ms {
		entries[i].ID = m.ID
		entries[i].CreatedAt = m.CreatedAt.Time()
	}
	return nil
}

// ListByEntity 获取实体的历史记录，新的在前
func (r *historyRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]*domain.HistoryEntry, error) {
	var ms []*model.HistoryEntry
	err := r.db(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	list := make([]*domain.HistoryEntry, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

var _ domain.HistoryRepository = (*historyRepository)(nil)

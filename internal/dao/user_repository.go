package dao

import (
	"context"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const laneUser = "user"

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

func (r *userRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, model.TableNameUser)
	}, "user#user").WithContext(ctx)
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		Username:  m.Username,
		Password:  m.Password,
		IsDeleted: m.IsDeleted,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(user *domain.User) *model.User {
	if user == nil {
		return nil
	}
	return &model.User{
		UID:       user.UID,
		Email:     user.Email,
		Username:  user.Username,
		Password:  user.Password,
		IsDeleted: user.IsDeleted,
		CreatedAt: timex.Time(user.CreatedAt),
		UpdatedAt: timex.Time(user.UpdatedAt),
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	m := new(model.User)
	if err := r.db(ctx).Where("uid = ? AND is_deleted = ?", uid, false).First(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByUIDs 批量获取未删除的用户，按 UID 排序
func (r *userRepository) GetByUIDs(ctx context.Context, uids []int64) ([]*domain.User, error) {
	if len(uids) == 0 {
		return []*domain.User{}, nil
	}
	var ms []*model.User
	if err := r.db(ctx).Where("uid IN ? AND is_deleted = ?", uids, false).Order("uid").Find(&ms).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.User, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m := new(model.User)
	if err := r.db(ctx).Where("email = ? AND is_deleted = ?", email, false).First(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m := new(model.User)
	if err := r.db(ctx).Where("username = ? AND is_deleted = ?", username, false).First(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	r.db(ctx)
	err := r.dao.ExecuteWrite(ctx, laneUser, func(ctx context.Context, db *gorm.DB) error {
		return db.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(ctx context.Context, password string, uid int64) error {
	r.db(ctx)
	return r.dao.ExecuteWrite(ctx, laneUser, func(ctx context.Context, db *gorm.DB) error {
		return db.Model(&model.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
			"password":   password,
			"updated_at": timex.Now(),
		}).Error
	})
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)

// userPrefRepository 实现 domain.UserPrefRepository 接口
type userPrefRepository struct {
	dao *Dao
}

// NewUserPrefRepository 创建 UserPrefRepository 实例
func NewUserPrefRepository(dao *Dao) domain.UserPrefRepository {
	return &userPrefRepository{dao: dao}
}

func (r *userPrefRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, model.TableNameUserPref)
	}, "user#pref").WithContext(ctx)
}

// Get 获取偏好，不存在时返回 gorm.ErrRecordNotFound
func (r *userPrefRepository) Get(ctx context.Context, uid int64, listKey string) (*domain.UserPref, error) {
	m := new(model.UserPref)
	if err := r.db(ctx).Where("uid = ? AND list_key = ?", uid, listKey).First(m).Error; err != nil {
		return nil, err
	}
	return &domain.UserPref{
		UID:       m.UID,
		ListKey:   m.ListKey,
		Value:     []byte(m.Value),
		UpdatedAt: m.UpdatedAt.Time(),
	}, nil
}

// Save 新建或覆盖
func (r *userPrefRepository) Save(ctx context.Context, pref *domain.UserPref) error {
	m := &model.UserPref{
		UID:       pref.UID,
		ListKey:   pref.ListKey,
		Value:     string(pref.Value),
		UpdatedAt: timex.Now(),
	}
	r.db(ctx)
	return r.dao.ExecuteWrite(ctx, laneUser, func(ctx context.Context, db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}, {Name: "list_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(m).Error
	})
}

// Delete 删除偏好
func (r *userPrefRepository) Delete(ctx context.Context, uid int64, listKey string) error {
	r.db(ctx)
	return r.dao.ExecuteWrite(ctx, laneUser, func(ctx context.Context, db *gorm.DB) error {
		return db.Where("uid = ? AND list_key = ?", uid, listKey).Delete(&model.UserPref{}).Error
	})
}

var _ domain.UserPrefRepository = (*userPrefRepository)(nil)

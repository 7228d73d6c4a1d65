package domain

import (
	"context"
	"time"
)

// User 用户领域模型
type User struct {
	UID       int64
	Email     string
	Username  string
	Password  string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName 用于联系人列表显示
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// IsActive 判断用户是否活跃（未删除）
func (u *User) IsActive() bool {
	return !u.IsDeleted
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByUIDs 批量获取未删除的用户
	GetByUIDs(ctx context.Context, uids []int64) ([]*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, password string, uid int64) error
}

// UserPref 用户对某个列表保存的偏好（过滤条件、排序）
type UserPref struct {
	UID       int64
	ListKey   string
	Value     []byte
	UpdatedAt time.Time
}

// UserPrefRepository 用户偏好仓储接口
type UserPrefRepository interface {
	// Get 不存在时返回 gorm.ErrRecordNotFound
	Get(ctx context.Context, uid int64, listKey string) (*UserPref, error)

	// Save 新建或覆盖
	Save(ctx context.Context, pref *UserPref) error

	// Delete 删除，不存在时不报错
	Delete(ctx context.Context, uid int64, listKey string) error
}

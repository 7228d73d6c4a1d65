package dto

import (
	"github.com/haierkeys/projectforge-office-service/pkg/timex"
	"github.com/haierkeys/projectforge-office-service/pkg/util"
	"github.com/haierkeys/projectforge-office-service/pkg/workerpool"
)

// UserCreateRequest 用户注册请求参数
type UserCreateRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`
	Username        string `json:"username" form:"username" binding:"required,min=3,max=64"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

// UserLoginRequest 用户登录请求参数
type UserLoginRequest struct {
	Credentials string `json:"credentials" form:"credentials" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
}

// UserChangePasswordRequest 修改密码请求参数
type UserChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64      `json:"uid"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Token     string     `json:"token,omitempty"`
	UpdatedAt timex.Time `json:"updatedAt"`
	CreatedAt timex.Time `json:"createdAt"`
}

// HistoryEntryDTO 属性变更记录
type HistoryEntryDTO struct {
	ID        int64      `json:"id"`
	UID       int64      `json:"uid"`
	Username  string     `json:"username"`
	Property  string     `json:"property"`
	OldValue  string     `json:"oldValue"`
	NewValue  string     `json:"newValue"`
	Diff      string     `json:"diff,omitempty"`
	CreatedAt timex.Time `json:"createdAt"`
}

// HealthDTO 健康检查结果
type HealthDTO struct {
	Status     string             `json:"status"`
	Database   string             `json:"database"`
	Uptime     string             `json:"uptime"`
	WorkerPool workerpool.Metrics `json:"workerPool"`
	WriteLanes int                `json:"writeLanes"`
	ListViews  int                `json:"listViews"`
	EditForms  int                `json:"editForms"`
	System     util.SysInfo       `json:"system"`
}

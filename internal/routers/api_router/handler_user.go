package api_router

import (
	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	apperrors "github.com/haierkeys/projectforge-office-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserHandler user API router handler
// UserHandler 用户 API 路由处理器
type UserHandler struct {
	*Handler
}

// NewUserHandler creates UserHandler instance
// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(a),
	}
}

// Register user registration
// @Summary User registration
// @Description Register a user. Registration may be disabled by user.register-is-enable.
// @Description 用户注册，可在配置 user.register-is-enable 中关闭。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserCreateRequest true "Register Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Registration Disabled / User Already Exists"
// @Router /api/user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	params := &dto.UserCreateRequest{}
	if !h.bind(c, params, "UserHandler.Register") {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Register(ctx, params)
	if err != nil {
		h.logError(ctx, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// Login user login
// @Summary User login
// @Description Log in with email or username and return the auth token.
// @Description 使用邮箱或用户名登录，返回认证 Token。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserLoginRequest true "Login Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Invalid Credentials"
// @Failure 429 {object} pkgapp.Res "Too Many Requests"
// @Router /api/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	if !h.bind(c, params, "UserHandler.Login") {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Login(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// ChangePassword changes user password
// @Summary Change user password
// @Description Verify the old password of the current user and store the new one.
// @Description 验证当前用户的旧密码并保存新密码。
// @Tags User
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Accept json
// @Produce json
// @Param params body dto.UserChangePasswordRequest true "Change Password Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Old Password Wrong"
// @Router /api/user/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	params := &dto.UserChangePasswordRequest{}
	if !h.bind(c, params, "UserHandler.ChangePassword") {
		return
	}
	uid, ok := h.uid(c, "UserHandler.ChangePassword")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.UserService.ChangePassword(ctx, uid, params); err != nil {
		h.logError(ctx, "UserHandler.ChangePassword", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate)
}

// Info retrieves current user info
// @Summary Get current user info
// @Description Return the profile of the logged in user.
// @Description 返回当前登录用户的信息。
// @Tags User
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Not Logged In"
// @Router /api/user/info [get]
func (h *UserHandler) Info(c *gin.Context) {
	uid, ok := h.uid(c, "UserHandler.Info")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.GetInfo(ctx, uid)
	if err != nil {
		h.logError(ctx, "UserHandler.Info", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

package api_router

import (
	"context"

	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	apperrors "github.com/haierkeys/projectforge-office-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// entityAPI 列表页和编辑页共用的业务接口
// L 列表参数, R 保存参数, V 输出, F 保存的过滤条件
type entityAPI[L any, R any, V any, F any] interface {
	List(ctx context.Context, uid int64, params L, pager *pkgapp.Pager) ([]V, error)
	Get(ctx context.Context, id int64) (V, error)
	Edit(ctx context.Context, uid, id int64) (*dto.EditDTO, error)
	Save(ctx context.Context, uid int64, params R) (*dto.SaveResultDTO, error)
	MarkAsDeleted(ctx context.Context, uid int64, params *dto.TokenIDRequest) error
	Undelete(ctx context.Context, uid int64, params *dto.TokenIDRequest) error
	Years(ctx context.Context) ([]int, error)
	Autocomplete(ctx context.Context, params *dto.AutocompleteRequest) ([]string, error)
	History(ctx context.Context, id int64) ([]*dto.HistoryEntryDTO, error)
	SavedFilter(ctx context.Context, uid int64) (F, error)
	ResetFilter(ctx context.Context, uid int64) error
}

// saveRequest 保存参数需要区分新建和修改
type saveRequest interface {
	IsNew() bool
}

// EntityRoutes 每个实体挂载的路由
type EntityRoutes interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Edit(c *gin.Context)
	Save(c *gin.Context)
	Delete(c *gin.Context)
	Undelete(c *gin.Context)
	Years(c *gin.Context)
	Autocomplete(c *gin.Context)
	History(c *gin.Context)
	Filter(c *gin.Context)
	ResetFilter(c *gin.Context)
}

// EntityHandler list and edit endpoints shared by every entity
// EntityHandler 实体的列表页和编辑页
type EntityHandler[L any, R saveRequest, V any, F any] struct {
	*Handler
	name    string
	svc     entityAPI[L, R, V, F]
	newList func() L
	newSave func() R
}

func newEntityHandler[L any, R saveRequest, V any, F any](a *app.App, name string, svc entityAPI[L, R, V, F], newList func() L, newSave func() R) *EntityHandler[L, R, V, F] {
	return &EntityHandler[L, R, V, F]{
		Handler: NewHandler(a),
		name:    name,
		svc:     svc,
		newList: newList,
		newSave: newSave,
	}
}

// List entity list page
// @Summary List entities
// @Description Filtered, sorted and paginated list. The filter is remembered per user, refresh=true reloads the cached id list.
// @Description 过滤、排序并分页的列表。过滤条件按用户保存，refresh=true 时重新查询缓存的 ID 列表。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param sort query string false "Primary sort property"
// @Param sort2 query string false "Secondary sort property"
// @Param asc query bool false "Primary ascending"
// @Param asc2 query bool false "Secondary ascending"
// @Param page query int false "Page"
// @Param pageSize query int false "Page Size"
// @Param refresh query bool false "Reload id list"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters"
// @Router /api/{entity}s [get]
func (h *EntityHandler[L, R, V, F]) List(c *gin.Context) {
	method := h.name + ".List"
	params := h.newList()
	if !h.bind(c, params, method) {
		return
	}
	uid, ok := h.uid(c, method)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	pager := pkgapp.NewPager(c, h.App.PaginationConfig())
	list, err := h.svc.List(ctx, uid, params, pager)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponseList(code.Success, list, *pager)
}

// Get single record
// @Summary Get entity
// @Description Return one record by id, deleted records included.
// @Description 按 ID 返回单条记录，包括已删除的记录。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param id query int true "Record ID"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Not Found"
// @Router /api/{entity} [get]
func (h *EntityHandler[L, R, V, F]) Get(c *gin.Context) {
	method := h.name + ".Get"
	params := &dto.IDRequest{}
	if !h.bind(c, params, method) {
		return
	}

	ctx := c.Request.Context()
	out, err := h.svc.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(out))
}

// Edit opens the edit form
// @Summary Open edit form
// @Description Issue a fresh edit token together with the record (id > 0) or the defaults of a new one (id = 0).
// @Description 签发新的编辑令牌，并返回记录 (id > 0) 或新记录的默认值 (id = 0)。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param id query int false "Record ID, 0 for a new record"
// @Success 200 {object} pkgapp.Res{data=dto.EditDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Not Found"
// @Router /api/{entity}/edit [get]
func (h *EntityHandler[L, R, V, F]) Edit(c *gin.Context) {
	method := h.name + ".Edit"
	params := &dto.EditRequest{}
	if !h.bind(c, params, method) {
		return
	}
	uid, ok := h.uid(c, method)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	out, err := h.svc.Edit(ctx, uid, params.ID)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(out))
}

// Save creates or updates a record
// @Summary Save entity
// @Description Create (id = 0) or update a record. One edit token can be submitted successfully only once.
// @Description 新建 (id = 0) 或修改记录，同一个编辑令牌只能成功提交一次。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Accept json
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param params body object true "Save Parameters with editToken"
// @Success 200 {object} pkgapp.Res{data=dto.SaveResultDTO} "Created / Updated / No Change"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Already Submitted / Form Expired"
// @Router /api/{entity} [post]
func (h *EntityHandler[L, R, V, F]) Save(c *gin.Context) {
	method := h.name + ".Save"
	params := h.newSave()
	if !h.bind(c, params, method) {
		return
	}
	uid, ok := h.uid(c, method)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	out, err := h.svc.Save(ctx, uid, params)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	result := code.SuccessUpdate
	switch {
	case params.IsNew():
		result = code.SuccessCreate
	case !out.Modified:
		result = code.SuccessNoChange
	}
	pkgapp.NewResponse(c).ToResponse(result.WithData(out))
}

// Delete marks a record as deleted
// @Summary Delete entity
// @Description Mark a record as deleted, requires an edit token.
// @Description 标记记录为已删除，需要编辑令牌。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Accept json
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param params body dto.TokenIDRequest true "ID and edit token"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Already Deleted"
// @Router /api/{entity} [delete]
func (h *EntityHandler[L, R, V, F]) Delete(c *gin.Context) {
	h.toggleDeleted(c, h.name+".Delete", h.svc.MarkAsDeleted, code.SuccessDelete)
}

// Undelete restores a deleted record
// @Summary Undelete entity
// @Description Restore a record marked as deleted, requires an edit token.
// @Description 恢复已删除的记录，需要编辑令牌。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Accept json
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param params body dto.TokenIDRequest true "ID and edit token"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Not Deleted"
// @Router /api/{entity}/undelete [put]
func (h *EntityHandler[L, R, V, F]) Undelete(c *gin.Context) {
	h.toggleDeleted(c, h.name+".Undelete", h.svc.Undelete, code.SuccessUndelete)
}

func (h *EntityHandler[L, R, V, F]) toggleDeleted(c *gin.Context, method string, fn func(context.Context, int64, *dto.TokenIDRequest) error, success *code.Code) {
	params := &dto.TokenIDRequest{}
	if !h.bind(c, params, method) {
		return
	}
	uid, ok := h.uid(c, method)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := fn(ctx, uid, params); err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(success)
}

// Years available years for the year filter
// @Summary Entity years
// @Description Distinct years of the entity date column, newest first.
// @Description 年份过滤的可选值，倒序。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Success 200 {object} pkgapp.Res{data=[]int} "Success"
// @Router /api/{entity}/years [get]
func (h *EntityHandler[L, R, V, F]) Years(c *gin.Context) {
	ctx := c.Request.Context()
	years, err := h.svc.Years(ctx)
	if err != nil {
		h.logError(ctx, h.name+".Years", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(years))
}

// Autocomplete existing values of a field
// @Summary Autocomplete field
// @Description Distinct values of a whitelisted text field containing the input.
// @Description 白名单字段中包含输入内容的已有取值。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param property query string true "Field"
// @Param input query string false "Input"
// @Success 200 {object} pkgapp.Res{data=[]string} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Field Not Supported"
// @Router /api/{entity}/autocomplete [get]
func (h *EntityHandler[L, R, V, F]) Autocomplete(c *gin.Context) {
	method := h.name + ".Autocomplete"
	params := &dto.AutocompleteRequest{}
	if !h.bind(c, params, method) {
		return
	}

	ctx := c.Request.Context()
	values, err := h.svc.Autocomplete(ctx, params)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(values))
}

// History property change log
// @Summary Entity history
// @Description Property changes of a record, newest first.
// @Description 记录的属性变更历史，新的在前。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Param id query int true "Record ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.HistoryEntryDTO} "Success"
// @Router /api/{entity}/history [get]
func (h *EntityHandler[L, R, V, F]) History(c *gin.Context) {
	method := h.name + ".History"
	params := &dto.IDRequest{}
	if !h.bind(c, params, method) {
		return
	}

	ctx := c.Request.Context()
	entries, err := h.svc.History(ctx, params.ID)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(entries))
}

// Filter saved list filter of the current user
// @Summary Get saved filter
// @Description Return the list filter remembered for the current user.
// @Description 返回当前用户保存的列表过滤条件。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/{entity}/filter [get]
func (h *EntityHandler[L, R, V, F]) Filter(c *gin.Context) {
	method := h.name + ".Filter"
	uid, ok := h.uid(c, method)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	filter, err := h.svc.SavedFilter(ctx, uid)
	if err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(filter))
}

// ResetFilter clears the saved list filter
// @Summary Reset saved filter
// @Description Clear the saved filter and drop the cached id list.
// @Description 清空过滤条件并丢弃缓存的 ID 列表。
// @Tags Entity
// @Security UserAuthToken
// @Param Authorization header string true "Bearer Auth Token"
// @Produce json
// @Param entity path string true "contract | outgoing-mail | incoming-mail | visitorbook"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/{entity}/filter [delete]
func (h *EntityHandler[L, R, V, F]) ResetFilter(c *gin.Context) {
	method := h.name + ".ResetFilter"
	uid, ok := h.uid(c, method)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.svc.ResetFilter(ctx, uid); err != nil {
		h.logError(ctx, method, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success)
}

var _ EntityRoutes = (*EntityHandler[*dto.ContractListRequest, *dto.ContractSaveRequest, *dto.ContractDTO, *dto.ContractFilterDTO])(nil)

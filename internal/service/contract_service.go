package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/convert"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
)

// ContractService 合同业务服务接口
type ContractService interface {
	// List 按过滤条件与排序取一页合同
	List(ctx context.Context, uid int64, params *dto.ContractListRequest, pager *app.Pager) ([]*dto.ContractDTO, error)

	// Get 获取合同（包含已删除）
	Get(ctx context.Context, id int64) (*dto.ContractDTO, error)

	// Edit 打开编辑表单，id 为 0 时为新建
	Edit(ctx context.Context, uid, id int64) (*dto.EditDTO, error)

	// Save 新建或更新合同，同一个表单令牌只会写入一次
	Save(ctx context.Context, uid int64, params *dto.ContractSaveRequest) (*dto.SaveResultDTO, error)

	// MarkAsDeleted 标记删除
	MarkAsDeleted(ctx context.Context, uid int64, params *dto.TokenIDRequest) error

	// Undelete 恢复
	Undelete(ctx context.Context, uid int64, params *dto.TokenIDRequest) error

	// Years 合同日期覆盖的年份
	Years(ctx context.Context) ([]int, error)

	// Autocomplete 自动补全
	Autocomplete(ctx context.Context, params *dto.AutocompleteRequest) ([]string, error)

	// History 变更历史
	History(ctx context.Context, id int64) ([]*dto.HistoryEntryDTO, error)

	// SavedFilter 用户保存的过滤条件
	SavedFilter(ctx context.Context, uid int64) (*dto.ContractFilterDTO, error)

	// ResetFilter 重置过滤条件
	ResetFilter(ctx context.Context, uid int64) error

	// NextNumber 下一个可用编号
	NextNumber(ctx context.Context) (int, error)

	// DueOn 再提交日期或到期日期为 day 当天的合同
	DueOn(ctx context.Context, day time.Time) ([]*dto.ContractDTO, error)
}

type contractService struct {
	*entityService[*domain.Contract, domain.ContractFilter, *dto.ContractDTO]
	repo   domain.ContractRepository
	config ContractServiceConfig

	// 自动编号与重复检查必须和写入一起串行
	numberMu sync.Mutex
}

// NewContractService 创建 ContractService 实例
func NewContractService(repo domain.ContractRepository, deps EntityDeps, config ContractServiceConfig) ContractService {
	s := &contractService{repo: repo, config: config}
	s.entityService = newEntityService(deps, domain.EntityContract, domain.BaseRepository[*domain.Contract, domain.ContractFilter](repo),
		contractsToDTO, func(c *dto.ContractDTO) int64 { return c.ID }, s.newDTO)
	return s
}

func contractsToDTO(_ context.Context, rows []*domain.Contract) ([]*dto.ContractDTO, error) {
	out := make([]*dto.ContractDTO, 0, len(rows))
	for _, c := range rows {
		d := &dto.ContractDTO{}
		if err := convert.Copy(d, c); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *contractService) newDTO(ctx context.Context) (*dto.ContractDTO, error) {
	number, err := s.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ContractDTO{
		Number: number,
		Date:   timex.Time(timex.StartOfDay(time.Now())),
		Status: string(domain.ContractStatusDraft),
	}, nil
}

// List 合同列表
func (s *contractService) List(ctx context.Context, uid int64, params *dto.ContractListRequest, pager *app.Pager) ([]*dto.ContractDTO, error) {
	filter := domain.ContractFilter{
		SearchString: strings.TrimSpace(params.SearchString),
		Year:         params.Year,
		Status:       domain.ContractStatus(params.Status),
		Type:         params.Type,
		Deleted:      params.Deleted,
	}
	return s.list(ctx, uid, filter, params.ListRequest, pager)
}

// Save 新建或更新合同
func (s *contractService) Save(ctx context.Context, uid int64, params *dto.ContractSaveRequest) (*dto.SaveResultDTO, error) {
	if params.Date.IsZero() {
		return nil, code.ErrorInvalidParams.WithDetails("date is required")
	}
	if !domain.ContractStatus(params.Status).Valid() {
		return nil, code.ErrorContractStatusInvalid.WithDetails(params.Status)
	}
	if !s.config.AllowsType(params.Type) {
		return nil, code.ErrorContractTypeInvalid.WithDetails(params.Type)
	}

	obj := &domain.Contract{}
	if err := convert.Copy(obj, params); err != nil {
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	}
	obj.ID = params.ID
	obj.Title = strings.TrimSpace(obj.Title)

	s.numberMu.Lock()
	defer s.numberMu.Unlock()
	return s.save(ctx, uid, params.EditToken, obj, func(ctx context.Context, old *domain.Contract) error {
		return s.assignNumber(ctx, obj, old)
	})
}

// assignNumber 编号为 0 时沿用旧编号或分配 max+1，否则检查编号是否被其他未删除合同占用
func (s *contractService) assignNumber(ctx context.Context, obj, old *domain.Contract) error {
	if obj.Number == 0 {
		if old != nil && old.Number != 0 {
			obj.Number = old.Number
			return nil
		}
		maxNumber, err := s.repo.MaxNumber(ctx)
		if err != nil {
			return err
		}
		obj.Number = maxNumber + 1
		return nil
	}

	other, err := s.repo.GetByNumber(ctx, obj.Number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != obj.ID {
		return code.ErrorContractNumberExists.WithDetails(strconv.Itoa(obj.Number))
	}
	return nil
}

// NextNumber 下一个可用编号
func (s *contractService) NextNumber(ctx context.Context) (int, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do("next-number", func() (interface{}, error) {
		return s.repo.MaxNumber(shared)
	})
	if err != nil {
		return 0, s.fail("next-number", 0, 0, err)
	}
	return v.(int) + 1, nil
}

// SavedFilter 用户保存的过滤条件，没有保存过时返回空条件
func (s *contractService) SavedFilter(ctx context.Context, uid int64) (*dto.ContractFilterDTO, error) {
	f, _, err := s.savedFilter(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.ContractFilterDTO{
		SearchString: f.SearchString,
		Year:         f.Year,
		Status:       string(f.Status),
		Type:         f.Type,
		Deleted:      f.Deleted,
	}, nil
}

// DueOn 再提交日期或到期日期为 day 当天的未删除合同
func (s *contractService) DueOn(ctx context.Context, day time.Time) ([]*dto.ContractDTO, error) {
	start, end := timex.DayRange(day)
	rows, err := s.repo.ListDueBetween(ctx, start, end)
	if err != nil {
		return nil, s.fail("due", 0, 0, err)
	}
	return contractsToDTO(ctx, rows)
}

var _ ContractService = (*contractService)(nil)

package service

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/convert"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"
)

// MailService 收发件登记的业务服务接口，V 为发件或收件 DTO，R 为保存参数
type MailService[V any, R any] interface {
	List(ctx context.Context, uid int64, params *dto.MailListRequest, pager *app.Pager) ([]V, error)
	Get(ctx context.Context, id int64) (V, error)
	Edit(ctx context.Context, uid, id int64) (*dto.EditDTO, error)
	Save(ctx context.Context, uid int64, params R) (*dto.SaveResultDTO, error)
	MarkAsDeleted(ctx context.Context, uid int64, params *dto.TokenIDRequest) error
	Undelete(ctx context.Context, uid int64, params *dto.TokenIDRequest) error
	Years(ctx context.Context) ([]int, error)
	Autocomplete(ctx context.Context, params *dto.AutocompleteRequest) ([]string, error)
	History(ctx context.Context, id int64) ([]*dto.HistoryEntryDTO, error)
	SavedFilter(ctx context.Context, uid int64) (*dto.MailFilterDTO, error)
	ResetFilter(ctx context.Context, uid int64) error
}

// OutgoingMailService 发件登记服务
type OutgoingMailService = MailService[*dto.OutgoingMailDTO, *dto.OutgoingMailSaveRequest]

// IncomingMailService 收件登记服务
type IncomingMailService = MailService[*dto.IncomingMailDTO, *dto.IncomingMailSaveRequest]

// mailService 发件与收件共用的实现
// toDomain 把保存参数转换为实体并返回表单令牌
type mailService[D domain.Entity, V any, R any] struct {
	*entityService[D, domain.MailListFilter, V]
	toDomain func(params R) (obj D, token string, date timex.Time, mailType string, err error)
}

func mailDefaults[V any](build func(date timex.Time) V) func(context.Context) (V, error) {
	return func(context.Context) (V, error) {
		return build(timex.Time(timex.StartOfDay(time.Now()))), nil
	}
}

func copyRows[D any, V any](rows []D) ([]V, error) {
	out := make([]V, 0, len(rows))
	for _, row := range rows {
		var v V
		if err := convert.Copy(&v, row); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// NewOutgoingMailService 创建发件登记服务
func NewOutgoingMailService(repo domain.OutgoingMailRepository, deps EntityDeps) OutgoingMailService {
	base := newEntityService(deps, domain.EntityOutgoingMail,
		domain.BaseRepository[*domain.OutgoingMail, domain.MailListFilter](repo),
		func(_ context.Context, rows []*domain.OutgoingMail) ([]*dto.OutgoingMailDTO, error) {
			vals, err := copyRows[*domain.OutgoingMail, dto.OutgoingMailDTO](rows)
			return ptrs(vals), err
		},
		func(v *dto.OutgoingMailDTO) int64 { return v.ID },
		mailDefaults(func(date timex.Time) *dto.OutgoingMailDTO {
			return &dto.OutgoingMailDTO{Date: date, Type: string(domain.MailTypeLetter)}
		}),
	)
	return &mailService[*domain.OutgoingMail, *dto.OutgoingMailDTO, *dto.OutgoingMailSaveRequest]{
		entityService: base,
		toDomain: func(p *dto.OutgoingMailSaveRequest) (*domain.OutgoingMail, string, timex.Time, string, error) {
			obj := &domain.OutgoingMail{}
			err := convert.Copy(obj, p)
			obj.ID = p.ID
			obj.Receiver = strings.TrimSpace(obj.Receiver)
			return obj, p.EditToken, p.Date, p.Type, err
		},
	}
}

// NewIncomingMailService 创建收件登记服务
func NewIncomingMailService(repo domain.IncomingMailRepository, deps EntityDeps) IncomingMailService {
	base := newEntityService(deps, domain.EntityIncomingMail,
		domain.BaseRepository[*domain.IncomingMail, domain.MailListFilter](repo),
		func(_ context.Context, rows []*domain.IncomingMail) ([]*dto.IncomingMailDTO, error) {
			vals, err := copyRows[*domain.IncomingMail, dto.IncomingMailDTO](rows)
			return ptrs(vals), err
		},
		func(v *dto.IncomingMailDTO) int64 { return v.ID },
		mailDefaults(func(date timex.Time) *dto.IncomingMailDTO {
			return &dto.IncomingMailDTO{Date: date, Type: string(domain.MailTypeLetter)}
		}),
	)
	return &mailService[*domain.IncomingMail, *dto.IncomingMailDTO, *dto.IncomingMailSaveRequest]{
		entityService: base,
		toDomain: func(p *dto.IncomingMailSaveRequest) (*domain.IncomingMail, string, timex.Time, string, error) {
			obj := &domain.IncomingMail{}
			err := convert.Copy(obj, p)
			obj.ID = p.ID
			obj.Sender = strings.TrimSpace(obj.Sender)
			return obj, p.EditToken, p.Date, p.Type, err
		},
	}
}

func ptrs[V any](vals []V) []*V {
	out := make([]*V, len(vals))
	for i := range vals {
		out[i] = &vals[i]
	}
	return out
}

// List 收发件列表，Month 只在设置了 Year 时生效
func (s *mailService[D, V, R]) List(ctx context.Context, uid int64, params *dto.MailListRequest, pager *app.Pager) ([]V, error) {
	filter := domain.MailListFilter{
		SearchString: strings.TrimSpace(params.SearchString),
		Year:         params.Year,
		Deleted:      params.Deleted,
	}
	if params.Year > 0 {
		filter.Month = params.Month
	}
	return s.list(ctx, uid, filter, params.ListRequest, pager)
}

// Save 新建或更新登记
func (s *mailService[D, V, R]) Save(ctx context.Context, uid int64, params R) (*dto.SaveResultDTO, error) {
	obj, token, date, mailType, err := s.toDomain(params)
	if err != nil {
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	}
	if date.IsZero() {
		return nil, code.ErrorInvalidParams.WithDetails("date is required")
	}
	if !domain.MailType(mailType).Valid() {
		return nil, code.ErrorMailTypeInvalid.WithDetails(mailType)
	}
	return s.save(ctx, uid, token, obj, nil)
}

// SavedFilter 用户保存的过滤条件
func (s *mailService[D, V, R]) SavedFilter(ctx context.Context, uid int64) (*dto.MailFilterDTO, error) {
	f, _, err := s.savedFilter(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.MailFilterDTO{
		SearchString: f.SearchString,
		Year:         f.Year,
		Month:        f.Month,
		Deleted:      f.Deleted,
	}, nil
}

var (
	_ OutgoingMailService = (*mailService[*domain.OutgoingMail, *dto.OutgoingMailDTO, *dto.OutgoingMailSaveRequest])(nil)
	_ IncomingMailService = (*mailService[*domain.IncomingMail, *dto.IncomingMailDTO, *dto.IncomingMailSaveRequest])(nil)
)

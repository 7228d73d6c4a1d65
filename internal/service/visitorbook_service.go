package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"
	"github.com/haierkeys/projectforge-office-service/pkg/util"

	"go.uber.org/zap"
)

// VisitorbookService 访客登记业务服务接口
type VisitorbookService interface {
	List(ctx context.Context, uid int64, params *dto.VisitorbookListRequest, pager *app.Pager) ([]*dto.VisitorbookDTO, error)
	Get(ctx context.Context, id int64) (*dto.VisitorbookDTO, error)
	Edit(ctx context.Context, uid, id int64) (*dto.EditDTO, error)
	Save(ctx context.Context, uid int64, params *dto.VisitorbookSaveRequest) (*dto.SaveResultDTO, error)
	MarkAsDeleted(ctx context.Context, uid int64, params *dto.TokenIDRequest) error
	Undelete(ctx context.Context, uid int64, params *dto.TokenIDRequest) error
	Years(ctx context.Context) ([]int, error)
	Autocomplete(ctx context.Context, params *dto.AutocompleteRequest) ([]string, error)
	History(ctx context.Context, id int64) ([]*dto.HistoryEntryDTO, error)
	SavedFilter(ctx context.Context, uid int64) (*dto.VisitorbookFilterDTO, error)
	ResetFilter(ctx context.Context, uid int64) error
}

type visitorbookService struct {
	*entityService[*domain.Visitorbook, domain.VisitorbookFilter, *dto.VisitorbookDTO]
}

// NewVisitorbookService 创建 VisitorbookService 实例
func NewVisitorbookService(repo domain.VisitorbookRepository, deps EntityDeps) VisitorbookService {
	s := &visitorbookService{}
	s.entityService = newEntityService(deps, domain.EntityVisitorbook,
		domain.BaseRepository[*domain.Visitorbook, domain.VisitorbookFilter](repo),
		s.rowsToDTO,
		func(v *dto.VisitorbookDTO) int64 { return v.ID },
		func(context.Context) (*dto.VisitorbookDTO, error) {
			return &dto.VisitorbookDTO{
				VisitorType:    string(domain.VisitorTypeVisitor),
				ContactPersons: []dto.ContactPersonDTO{},
				Entries:        []dto.VisitorbookEntryDTO{},
			}, nil
		},
	)
	return s
}

// rowsToDTO 转换访客，联系人名称一次批量查询
func (s *visitorbookService) rowsToDTO(ctx context.Context, rows []*domain.Visitorbook) ([]*dto.VisitorbookDTO, error) {
	names := s.contactNames(ctx, rows)

	out := make([]*dto.VisitorbookDTO, 0, len(rows))
	for _, v := range rows {
		d := &dto.VisitorbookDTO{
			ID:             v.ID,
			Created:        timex.Time(v.Created),
			LastUpdate:     timex.Time(v.LastUpdate),
			Deleted:        v.Deleted,
			Firstname:      v.Firstname,
			Lastname:       v.Lastname,
			Company:        v.Company,
			VisitorType:    string(v.VisitorType),
			ContactPersons: make([]dto.ContactPersonDTO, 0, len(v.ContactPersonIDs)),
			Entries:        make([]dto.VisitorbookEntryDTO, 0, len(v.Entries)),
			Arrived:        v.Arrived(),
			Departed:       v.Departed(),
			Active:         v.IsActive(),
		}
		if last := v.LastDateOfVisit(); last != nil {
			t := timex.Time(*last)
			d.LastDateOfVisit = &t
		}
		for _, uid := range v.ContactPersonIDs {
			d.ContactPersons = append(d.ContactPersons, dto.ContactPersonDTO{UID: uid, Username: names[uid]})
		}
		for _, e := range v.Entries {
			d.Entries = append(d.Entries, dto.VisitorbookEntryDTO{
				ID:          e.ID,
				DateOfVisit: timex.Time(e.DateOfVisit),
				Arrived:     e.Arrived,
				Departed:    e.Departed,
				Comment:     e.Comment,
			})
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *visitorbookService) contactNames(ctx context.Context, rows []*domain.Visitorbook) map[int64]string {
	names := make(map[int64]string)
	var uids []int64
	for _, v := range rows {
		for _, uid := range v.ContactPersonIDs {
			if _, ok := names[uid]; !ok {
				names[uid] = ""
				uids = append(uids, uid)
			}
		}
	}
	if len(uids) == 0 || s.UserRepo == nil {
		return names
	}
	users, err := s.UserRepo.GetByUIDs(ctx, uids)
	if err != nil {
		s.Logger.Warn("contact person lookup failed", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.UID] = u.DisplayName()
	}
	return names
}

// List 访客列表
func (s *visitorbookService) List(ctx context.Context, uid int64, params *dto.VisitorbookListRequest, pager *app.Pager) ([]*dto.VisitorbookDTO, error) {
	filter := domain.VisitorbookFilter{
		SearchString:          strings.TrimSpace(params.SearchString),
		ShowOnlyActiveEntries: params.ShowOnlyActiveEntries,
		Deleted:               params.Deleted,
	}
	if params.StartTime != "" {
		t, err := timex.Parse(params.StartTime)
		if err != nil {
			return nil, code.ErrorInvalidParams.WithDetails("startTime: " + err.Error())
		}
		filter.StartTime = &t
	}
	if params.EndTime != "" {
		t, err := timex.Parse(params.EndTime)
		if err != nil {
			return nil, code.ErrorInvalidParams.WithDetails("endTime: " + err.Error())
		}
		filter.EndTime = &t
	}
	if filter.StartTime != nil && filter.EndTime != nil && filter.EndTime.Before(*filter.StartTime) {
		return nil, code.ErrorDateRange
	}
	return s.list(ctx, uid, filter, params.ListRequest, pager)
}

// Save 新建或更新访客及其来访记录
func (s *visitorbookService) Save(ctx context.Context, uid int64, params *dto.VisitorbookSaveRequest) (*dto.SaveResultDTO, error) {
	if !domain.VisitorType(params.VisitorType).Valid() {
		return nil, code.ErrorVisitorTypeInvalid.WithDetails(params.VisitorType)
	}

	obj := &domain.Visitorbook{
		Firstname:   strings.TrimSpace(params.Firstname),
		Lastname:    strings.TrimSpace(params.Lastname),
		Company:     strings.TrimSpace(params.Company),
		VisitorType: domain.VisitorType(params.VisitorType),
	}
	obj.ID = params.ID

	for i, e := range params.Entries {
		entry, err := visitorbookEntry(i, e)
		if err != nil {
			return nil, err
		}
		obj.Entries = append(obj.Entries, entry)
	}
	obj.SortEntries()

	ids := slices.Clone(params.ContactPersonIDs)
	slices.Sort(ids)
	obj.ContactPersonIDs = slices.Compact(ids)

	return s.save(ctx, uid, params.EditToken, obj, func(ctx context.Context, old *domain.Visitorbook) error {
		if err := checkEntryIDs(old, obj.Entries); err != nil {
			return err
		}
		return s.checkContactPersons(ctx, obj.ContactPersonIDs)
	})
}

// checkEntryIDs 已有 ID 的来访记录必须属于当前访客，新建访客时只能提交新记录
func checkEntryIDs(old *domain.Visitorbook, entries []*domain.VisitorbookEntry) error {
	owned := make(map[int64]bool)
	if old != nil {
		for _, e := range old.Entries {
			owned[e.ID] = true
		}
	}
	for _, e := range entries {
		if e.ID != 0 && !owned[e.ID] {
			return code.ErrorVisitorEntryNotFound.WithDetails("entry id " + strconv.FormatInt(e.ID, 10))
		}
	}
	return nil
}

func visitorbookEntry(i int, e dto.VisitorbookEntryRequest) (*domain.VisitorbookEntry, error) {
	field := "entries[" + strconv.Itoa(i) + "]"
	if e.DateOfVisit.IsZero() {
		return nil, code.ErrorInvalidParams.WithDetails(field + ".dateOfVisit is required")
	}
	for _, clock := range []string{e.Arrived, e.Departed} {
		if clock != "" && !util.IsValidClock(clock) {
			return nil, code.ErrorInvalidParams.WithDetails(field + ": invalid time " + clock)
		}
	}
	if e.Arrived != "" && e.Departed != "" && e.Departed <= e.Arrived {
		return nil, code.ErrorVisitorEntryInvalidTime.WithDetails(field)
	}
	return &domain.VisitorbookEntry{
		ID:          e.ID,
		DateOfVisit: timex.StartOfDay(e.DateOfVisit.Time()),
		Arrived:     e.Arrived,
		Departed:    e.Departed,
		Comment:     strings.TrimSpace(e.Comment),
	}, nil
}

// checkContactPersons 联系人必须是存在且未删除的用户
func (s *visitorbookService) checkContactPersons(ctx context.Context, uids []int64) error {
	if len(uids) == 0 {
		return nil
	}
	users, err := s.UserRepo.GetByUIDs(ctx, uids)
	if err != nil {
		return err
	}
	found := make(map[int64]bool, len(users))
	for _, u := range users {
		found[u.UID] = true
	}
	var missing []string
	for _, uid := range uids {
		if !found[uid] {
			missing = append(missing, strconv.FormatInt(uid, 10))
		}
	}
	if len(missing) > 0 {
		return code.ErrorContactPersonNotFound.WithDetails(missing...)
	}
	return nil
}

// SavedFilter 用户保存的过滤条件
func (s *visitorbookService) SavedFilter(ctx context.Context, uid int64) (*dto.VisitorbookFilterDTO, error) {
	f, _, err := s.savedFilter(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := &dto.VisitorbookFilterDTO{
		SearchString:          f.SearchString,
		ShowOnlyActiveEntries: f.ShowOnlyActiveEntries,
		Deleted:               f.Deleted,
	}
	if f.StartTime != nil {
		out.StartTime = f.StartTime.Format(timex.DateLayout)
	}
	if f.EndTime != nil {
		out.EndTime = f.EndTime.Format(timex.DateLayout)
	}
	return out, nil
}

var _ VisitorbookService = (*visitorbookService)(nil)

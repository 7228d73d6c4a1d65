package dao

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"gorm.io/gorm"
)

// contractRepository 实现 domain.ContractRepository 接口
type contractRepository struct {
	baseRepository[model.Contract, *model.Contract, *domain.Contract, domain.ContractFilter]
}

// NewContractRepository 创建 ContractRepository 实例
func NewContractRepository(dao *Dao) domain.ContractRepository {
	r := &contractRepository{}
	r.baseRepository = baseRepository[model.Contract, *model.Contract, *domain.Contract, domain.ContractFilter]{
		dao:          dao,
		entity:       domain.EntityContract,
		tables:       []string{model.TableNameContract},
		dateColumn:   "date",
		defaultOrder: "number DESC",
		autocomplete: map[string]string{
			"coContractorA":   "co_contractor_a",
			"contractPersonA": "contract_person_a",
			"signerA":         "signer_a",
			"coContractorB":   "co_contractor_b",
			"contractPersonB": "contract_person_b",
			"signerB":         "signer_b",
			"reference":       "reference",
			"filing":          "filing",
		},
		toDomain:    contractToDomain,
		toModel:     contractToModel,
		applyFilter: contractFilter,
	}
	return r
}

func contractToDomain(m *model.Contract) *domain.Contract {
	if m == nil {
		return nil
	}
	return &domain.Contract{
		Audit:              auditToDomain(m.Audit),
		Number:             m.Number,
		Date:               m.Date,
		Title:              m.Title,
		CoContractorA:      m.CoContractorA,
		ContractPersonA:    m.ContractPersonA,
		SignerA:            m.SignerA,
		CoContractorB:      m.CoContractorB,
		ContractPersonB:    m.ContractPersonB,
		SignerB:            m.SignerB,
		SigningDate:        timePtr(m.SigningDate),
		ValidFrom:          timePtr(m.ValidFrom),
		ValidUntil:         timePtr(m.ValidUntil),
		DueDate:            timePtr(m.DueDate),
		ResubmissionOnDate: timePtr(m.ResubmissionOnDate),
		Type:               m.Type,
		Status:             domain.ContractStatus(m.Status),
		Text:               m.Text,
		Reference:          m.Reference,
		Filing:             m.Filing,
		Attachment:         m.Attachment,
	}
}

func contractToModel(c *domain.Contract) *model.Contract {
	if c == nil {
		return nil
	}
	return &model.Contract{
		Audit:              auditToModel(c.Audit),
		Number:             c.Number,
		Date:               c.Date,
		Title:              c.Title,
		CoContractorA:      c.CoContractorA,
		ContractPersonA:    c.ContractPersonA,
		SignerA:            c.SignerA,
		CoContractorB:      c.CoContractorB,
		ContractPersonB:    c.ContractPersonB,
		SignerB:            c.SignerB,
		SigningDate:        timePtr(c.SigningDate),
		ValidFrom:          timePtr(c.ValidFrom),
		ValidUntil:         timePtr(c.ValidUntil),
		DueDate:            timePtr(c.DueDate),
		ResubmissionOnDate: timePtr(c.ResubmissionOnDate),
		Type:               c.Type,
		Status:             string(c.Status),
		Text:               c.Text,
		Reference:          c.Reference,
		Filing:             c.Filing,
		Attachment:         c.Attachment,
	}
}

var contractSearchColumns = []string{
	"title", "co_contractor_a", "contract_person_a", "signer_a",
	"co_contractor_b", "contract_person_b", "signer_b",
	"text", "reference", "filing",
}

func contractFilter(db *gorm.DB, f domain.ContractFilter) *gorm.DB {
	db = db.Where("deleted = ?", f.Deleted)
	if f.Year > 0 {
		start, end := timex.YearRange(f.Year)
		db = dateRangeScope(db, "date", start, end)
	}
	if f.Status != "" {
		db = db.Where("status = ?", string(f.Status))
	}
	if f.Type != "" {
		db = db.Where("type = ?", f.Type)
	}
	search := strings.TrimSpace(f.SearchString)
	if n, err := strconv.Atoi(search); err == nil {
		// 纯数字同时匹配合同编号
		cond, args := searchCondition(search, contractSearchColumns...)
		return db.Where("(number = ? OR "+cond+")", append([]interface{}{n}, args...)...)
	}
	return searchScope(db, search, contractSearchColumns...)
}

// GetByNumber 根据编号获取未删除的合同
func (r *contractRepository) GetByNumber(ctx context.Context, number int) (*domain.Contract, error) {
	m := new(model.Contract)
	err := r.db(ctx).Where("number = ? AND deleted = ?", number, false).First(m).Error
	if err != nil {
		return nil, err
	}
	return contractToDomain(m), nil
}

// MaxNumber 当前最大编号
func (r *contractRepository) MaxNumber(ctx context.Context) (int, error) {
	var n int
	err := r.db(ctx).Model(&model.Contract{}).Select("COALESCE(MAX(number), 0)").Scan(&n).Error
	return n, err
}

// ListDueBetween 再提交日期或到期日期在 [start, end) 内的未删除合同
func (r *contractRepository) ListDueBetween(ctx context.Context, start, end time.Time) ([]*domain.Contract, error) {
	var ms []*model.Contract
	err := r.db(ctx).
		Where("deleted = ?", false).
		Where("(resubmission_on_date >= ? AND resubmission_on_date < ?) OR (due_date >= ? AND due_date < ?)",
			start, end, start, end).
		Order("number").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Contract, 0, len(ms))
	for _, m := range ms {
		list = append(list, contractToDomain(m))
	}
	return list, nil
}

// 确保 contractRepository 实现了 domain.ContractRepository 接口
var _ domain.ContractRepository = (*contractRepository)(nil)

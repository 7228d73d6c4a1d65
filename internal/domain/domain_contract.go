package domain

import (
	"context"
	"time"
)

// ContractStatus 合同状态
type ContractStatus string

const (
	ContractStatusDraft       ContractStatus = "draft"
	ContractStatusNegotiation ContractStatus = "negotiation"
	ContractStatusSigned      ContractStatus = "signed"
	ContractStatusTerminated  ContractStatus = "terminated"
	ContractStatusExpired     ContractStatus = "expired"
)

// ContractStatuses 所有合同状态，按流程顺序
var ContractStatuses = []ContractStatus{
	ContractStatusDraft,
	ContractStatusNegotiation,
	ContractStatusSigned,
	ContractStatusTerminated,
	ContractStatusExpired,
}

// Valid 状态是否合法，空状态视为合法
func (s ContractStatus) Valid() bool {
	if s == "" {
		return true
	}
	for _, v := range ContractStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Contract 合同
type Contract struct {
	Audit
	Number             int
	Date               time.Time
	Title              string
	CoContractorA      string
	ContractPersonA    string
	SignerA            string
	CoContractorB      string
	ContractPersonB    string
	SignerB            string
	SigningDate        *time.Time
	ValidFrom          *time.Time
	ValidUntil         *time.Time
	DueDate            *time.Time
	ResubmissionOnDate *time.Time
	Type               string
	Status             ContractStatus
	Text               string
	Reference          string
	Filing             string
	Attachment         string
}

// DueOn 再提交日期或到期日期是否落在 day 当天
func (c *Contract) DueOn(day time.Time) bool {
	same := func(t *time.Time) bool {
		if t == nil {
			return false
		}
		y1, m1, d1 := t.In(day.Location()).Date()
		y2, m2, d2 := day.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	return same(c.ResubmissionOnDate) || same(c.DueDate)
}

// ContractFilter 合同列表过滤条件
type ContractFilter struct {
	SearchString string
	Year         int
	Status       ContractStatus
	Type         string
	Deleted      bool
}

// Reset 清空所有条件
func (f *ContractFilter) Reset() {
	*f = ContractFilter{}
}

// ContractRepository 合同仓储接口
type ContractRepository interface {
	BaseRepository[*Contract, ContractFilter]

	// GetByNumber 根据编号获取未删除的合同
	GetByNumber(ctx context.Context, number int) (*Contract, error)

	// MaxNumber 当前最大编号（包含已删除），没有合同时为 0
	MaxNumber(ctx context.Context) (int, error)

	// ListDueBetween 再提交日期或到期日期在 [start, end) 内的未删除合同
	ListDueBetween(ctx context.Context, start, end time.Time) ([]*Contract, error)
}

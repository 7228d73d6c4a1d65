package dto

import "github.com/haierkeys/projectforge-office-service/pkg/timex"

// ContractListRequest 合同列表参数
type ContractListRequest struct {
	ListRequest
	SearchString string `json:"searchString" form:"searchString"`
	Year         int    `json:"year" form:"year" binding:"omitempty,min=1900,max=2999"`
	Status       string `json:"status" form:"status" binding:"omitempty,oneof=draft negotiation signed terminated expired"`
	Type         string `json:"type" form:"type"`
	Deleted      bool   `json:"deleted" form:"deleted"`
}

// ContractSaveRequest 合同新建/修改参数，ID 为 0 时新建
type ContractSaveRequest struct {
	EditToken          string      `json:"editToken" form:"editToken" binding:"required"`
	ID                 int64       `json:"id" form:"id" binding:"omitempty,min=0"`
	Number             int         `json:"number" form:"number" binding:"omitempty,min=0"`
	Date               timex.Time  `json:"date" form:"date"`
	Title              string      `json:"title" form:"title" binding:"required,notblank,max=1000"`
	CoContractorA      string      `json:"coContractorA" form:"coContractorA" binding:"max=1000"`
	ContractPersonA    string      `json:"contractPersonA" form:"contractPersonA" binding:"max=1000"`
	SignerA            string      `json:"signerA" form:"signerA" binding:"max=1000"`
	CoContractorB      string      `json:"coContractorB" form:"coContractorB" binding:"max=1000"`
	ContractPersonB    string      `json:"contractPersonB" form:"contractPersonB" binding:"max=1000"`
	SignerB            string      `json:"signerB" form:"signerB" binding:"max=1000"`
	SigningDate        *timex.Time `json:"signingDate" form:"signingDate"`
	ValidFrom          *timex.Time `json:"validFrom" form:"validFrom"`
	ValidUntil         *timex.Time `json:"validUntil" form:"validUntil"`
	DueDate            *timex.Time `json:"dueDate" form:"dueDate"`
	ResubmissionOnDate *timex.Time `json:"resubmissionOnDate" form:"resubmissionOnDate"`
	Type               string      `json:"type" form:"type" binding:"max=100"`
	Status             string      `json:"status" form:"status" binding:"max=100"`
	Text               string      `json:"text" form:"text"`
	Reference          string      `json:"reference" form:"reference" binding:"max=1000"`
	Filing             string      `json:"filing" form:"filing" binding:"max=1000"`
	Attachment         string      `json:"attachment" form:"attachment" binding:"max=1000"`
}

// ContractDTO 合同
type ContractDTO struct {
	ID                 int64       `json:"id"`
	Created            timex.Time  `json:"created"`
	LastUpdate         timex.Time  `json:"lastUpdate"`
	Deleted            bool        `json:"deleted"`
	Number             int         `json:"number"`
	Date               timex.Time  `json:"date"`
	Title              string      `json:"title"`
	CoContractorA      string      `json:"coContractorA"`
	ContractPersonA    string      `json:"contractPersonA"`
	SignerA            string      `json:"signerA"`
	CoContractorB      string      `json:"coContractorB"`
	ContractPersonB    string      `json:"contractPersonB"`
	SignerB            string      `json:"signerB"`
	SigningDate        *timex.Time `json:"signingDate"`
	ValidFrom          *timex.Time `json:"validFrom"`
	ValidUntil         *timex.Time `json:"validUntil"`
	DueDate            *timex.Time `json:"dueDate"`
	ResubmissionOnDate *timex.Time `json:"resubmissionOnDate"`
	Type               string      `json:"type"`
	Status             string      `json:"status"`
	Text               string      `json:"text"`
	Reference          string      `json:"reference"`
	Filing             string      `json:"filing"`
	Attachment         string      `json:"attachment"`
}

// ContractFilterDTO 保存的合同过滤条件
type ContractFilterDTO struct {
	SearchString string `json:"searchString"`
	Year         int    `json:"year"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	Deleted      bool   `json:"deleted"`
}

// NextNumberDTO 下一个可用的合同编号
type NextNumberDTO struct {
	Number int `json:"number"`
}

// IsNew ID 为 0 时新建
func (r *ContractSaveRequest) IsNew() bool { return r.ID == 0 }

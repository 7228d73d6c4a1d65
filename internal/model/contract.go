package model

import "time"

const TableNameContract = "contract"

// Contract mapped from table <contract>
type Contract struct {
	Audit
	Number             int        `gorm:"column:number;not null;index:idx_contract_number" json:"number" form:"number"`
	Date               time.Time  `gorm:"column:date;not null;index" json:"date" form:"date"`
	Title              string     `gorm:"column:title;size:1000;not null" json:"title" form:"title"`
	CoContractorA      string     `gorm:"column:co_contractor_a;size:1000" json:"coContractorA" form:"coContractorA"`
	ContractPersonA    string     `gorm:"column:contract_person_a;size:1000" json:"contractPersonA" form:"contractPersonA"`
	SignerA            string     `gorm:"column:signer_a;size:1000" json:"signerA" form:"signerA"`
	CoContractorB      string     `gorm:"column:co_contractor_b;size:1000" json:"coContractorB" form:"coContractorB"`
	ContractPersonB    string     `gorm:"column:contract_person_b;size:1000" json:"contractPersonB" form:"contractPersonB"`
	SignerB            string     `gorm:"column:signer_b;size:1000" json:"signerB" form:"signerB"`
	SigningDate        *time.Time `gorm:"column:signing_date" json:"signingDate" form:"signingDate"`
	ValidFrom          *time.Time `gorm:"column:valid_from" json:"validFrom" form:"validFrom"`
	ValidUntil         *time.Time `gorm:"column:valid_until" json:"validUntil" form:"validUntil"`
	DueDate            *time.Time `gorm:"column:due_date;index" json:"dueDate" form:"dueDate"`
	ResubmissionOnDate *time.Time `gorm:"column:resubmission_on_date;index" json:"resubmissionOnDate" form:"resubmissionOnDate"`
	Type               string     `gorm:"column:type;size:100" json:"type" form:"type"`
	Status             string     `gorm:"column:status;size:100" json:"status" form:"status"`
	Text               string     `gorm:"column:text;type:text" json:"text" form:"text"`
	Reference          string     `gorm:"column:reference;size:1000" json:"reference" form:"reference"`
	Filing             string     `gorm:"column:filing;size:1000" json:"filing" form:"filing"`
	Attachment         string     `gorm:"column:attachment;size:1000" json:"attachment" form:"attachment"`
}

// TableName Contract's table name
func (*Contract) TableName() string {
	return TableNameContract
}

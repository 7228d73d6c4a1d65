package upgrade

import (
	"context"

	"github.com/haierkeys/projectforge-office-service/internal/model"

	"gorm.io/gorm"
)

// ContractNumberMigrate 为导入时没有编号的合同补发连续编号
type ContractNumberMigrate struct{}

// Version 返回版本号
func (m *ContractNumberMigrate) Version() string {
	return "0.1.0"
}

// Description 返回描述
func (m *ContractNumberMigrate) Description() string {
	return "Assign consecutive numbers to contracts stored with number 0"
}

// Up 按日期和 id 顺序从当前最大编号之后继续编号
func (m *ContractNumberMigrate) Up(ctx context.Context, db *gorm.DB) error {
	var max int
	if err := db.Model(&model.Contract{}).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error; err != nil {
		return err
	}

	var ids []int64
	if err := db.Model(&model.Contract{}).
		Where("number = ?", 0).
		Order("date ASC").Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return err
	}

	for _, id := range ids {
		max++
		if err := db.Model(&model.Contract{}).
			Where("id = ?", id).
			Update("number", max).Error; err != nil {
			return err
		}
	}
	return nil
}

// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/projectforge-office-service/pkg/listview"
)

// ListRequest 列表页通用参数：两级排序与强制刷新
type ListRequest struct {
	Sort    string `json:"sort" form:"sort"`
	Asc     bool   `json:"asc" form:"asc"`
	Sort2   string `json:"sort2" form:"sort2"`
	Asc2    bool   `json:"asc2" form:"asc2"`
	Refresh bool   `json:"refresh" form:"refresh"`
}

// SortSpec 转换为列表排序
func (r ListRequest) SortSpec() listview.SortSpec {
	return listview.SortSpec{
		Primary:   listview.SortParam{Property: r.Sort, Ascending: r.Asc},
		Secondary: listview.SortParam{Property: r.Sort2, Ascending: r.Asc2},
	}
}

// AutocompleteRequest 自动补全参数
type AutocompleteRequest struct {
	Property string `json:"property" form:"property" binding:"required"`
	Input    string `json:"input" form:"input"`
}

// IDRequest 单条记录参数
type IDRequest struct {
	ID int64 `json:"id" form:"id" binding:"required,min=1"`
}

// TokenIDRequest 删除、恢复等需要编辑令牌的操作
type TokenIDRequest struct {
	EditToken string `json:"editToken" form:"editToken" binding:"required"`
	ID        int64  `json:"id" form:"id" binding:"required,min=1"`
}

// EditDTO 编辑表单数据，ID 为 0 时 Data 为新建的默认值
type EditDTO struct {
	EditToken string      `json:"editToken"`
	Data      interface{} `json:"data"`
}

// SaveResultDTO 保存结果
type SaveResultDTO struct {
	ID       int64 `json:"id"`
	Modified bool  `json:"modified"`
}

// EditRequest 打开编辑表单，ID 为 0 时为新建
type EditRequest struct {
	ID int64 `json:"id" form:"id" binding:"omitempty,min=0"`
}

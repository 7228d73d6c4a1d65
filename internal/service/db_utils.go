// Package service 实现业务逻辑层
package service

import (
	"github.com/haierkeys/projectforge-office-service/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DBUtils 数据库工具服务，供命令行迁移与维护脚本使用
type DBUtils struct {
	db *gorm.DB
}

// NewDBUtils 创建 DBUtils 实例
func NewDBUtils(db *gorm.DB) *DBUtils {
	return &DBUtils{db: db}
}

// AutoMigrate 迁移指定的表，不指定时迁移全部
func (u *DBUtils) AutoMigrate(tables ...string) error {
	return model.AutoMigrate(u.db, tables...)
}

// Tables 可迁移的表名
func (u *DBUtils) Tables() []string {
	return model.Tables
}

// ExecuteSQL 执行一条 SQL，返回影响行数
func (u *DBUtils) ExecuteSQL(sql string) (int64, error) {
	res := u.db.Exec(sql)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "execute sql")
	}
	return res.RowsAffected, nil
}

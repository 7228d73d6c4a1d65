// Package upgrade 管理按版本号执行的一次性数据升级
package upgrade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/model"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// SchemaVersion 数据库版本记录表
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

// TableName 指定表名
func (SchemaVersion) TableName() string {
	return "schema_version"
}

// Migration 定义升级接口
type Migration interface {
	Version() string
	Description() string
	Up(ctx context.Context, db *gorm.DB) error
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	running    string
	migrations []Migration
}

// NewMigrationManager 创建升级管理器，running 为当前程序版本
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, running string) *MigrationManager {
	return &MigrationManager{
		db:      db,
		logger:  logger,
		running: canonical(running),
		migrations: []Migration{
			// 在这里注册所有的升级脚本
			&ContractNumberMigrate{},
		},
	}
}

// canonical 补齐 semver 库需要的 "v" 前缀
func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Run 迁移全部表结构后执行尚未应用、且不高于当前版本的升级脚本，返回执行数量
func (m *MigrationManager) Run(ctx context.Context) (int, error) {
	db := m.db.WithContext(ctx)
	if err := model.AutoMigrate(db); err != nil {
		return 0, fmt.Errorf("failed to auto migrate tables: %w", err)
	}
	if err := db.AutoMigrate(&SchemaVersion{}); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	applied, err := m.appliedVersions(db)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied versions: %w", err)
	}

	if !semver.IsValid(m.running) {
		m.logger.Warn("running version is not a valid semver, applying every pending migration", zap.String("version", m.running))
	}

	executed := 0
	for _, migration := range m.migrations {
		version := migration.Version()
		if applied[version] {
			continue
		}
		// 比当前程序新的脚本留给以后的版本
		if semver.IsValid(m.running) && semver.Compare(canonical(version), m.running) > 0 {
			m.logger.Info("skip migration newer than running version",
				zap.String("scriptVersion", version),
				zap.String("runningVersion", m.running))
			continue
		}

		m.logger.Info("applying migration",
			zap.String("scriptVersion", version),
			zap.String("desc", migration.Description()))

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(ctx, tx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			record := &SchemaVersion{
				Version:     version,
				Description: migration.Description(),
				AppliedAt:   time.Now(),
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to record version: %w", err)
			}
			return nil
		}); err != nil {
			return executed, fmt.Errorf("failed to apply migration %s: %w", version, err)
		}

		m.logger.Info("migration applied successfully", zap.String("scriptVersion", version))
		executed++
	}

	if executed == 0 {
		m.logger.Info("database is already up to date")
	} else {
		m.logger.Info("upgrade completed", zap.Int("migrations_applied", executed))
	}
	return executed, nil
}

// appliedVersions 获取已应用的数据库版本
func (m *MigrationManager) appliedVersions(db *gorm.DB) (map[string]bool, error) {
	var versions []SchemaVersion
	if err := db.Find(&versions).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v.Version] = true
	}
	return applied, nil
}

package upgrade

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/dao"
	"github.com/haierkeys/projectforge-office-service/internal/model"
	"github.com/haierkeys/projectforge-office-service/pkg/timex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{Type: "sqlite", Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func contract(title string, number int, date time.Time) *model.Contract {
	now := timex.Now()
	return &model.Contract{
		Audit:  model.Audit{Created: now, LastUpdate: now},
		Number: number,
		Date:   date,
		Title:  title,
	}
}

func TestMigrationManager_ContractNumbers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, model.AutoMigrate(db, model.TableNameContract))

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
	require.NoError(t, db.Create(contract("Rahmenvertrag", 7, jan)).Error)
	require.NoError(t, db.Create(contract("Wartung", 0, jan.AddDate(0, 2, 0))).Error)
	require.NoError(t, db.Create(contract("Lizenz", 0, jan.AddDate(0, 1, 0))).Error)

	m := NewMigrationManager(db, zap.NewNop(), "0.1.0")
	n, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got []model.Contract
	require.NoError(t, db.Order("number ASC").Find(&got).Error)
	require.Len(t, got, 3)
	assert.Equal(t, "Rahmenvertrag", got[0].Title)
	assert.Equal(t, 8, got[1].Number)
	assert.Equal(t, "Lizenz", got[1].Title, "older contract gets the lower number")
	assert.Equal(t, 9, got[2].Number)

	// 已记录的版本不会重复执行
	n, err = m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var versions []SchemaVersion
	require.NoError(t, db.Find(&versions).Error)
	require.Len(t, versions, 1)
	assert.Equal(t, "0.1.0", versions[0].Version)
}

func TestMigrationManager_SkipsNewerScripts(t *testing.T) {
	db := newTestDB(t)
	n, err := NewMigrationManager(db, zap.NewNop(), "v0.0.9").Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var count int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&count).Error)
	assert.Zero(t, count)
}

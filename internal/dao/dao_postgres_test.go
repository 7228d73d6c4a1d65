package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupPostgresDao(t *testing.T) *Dao {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("projectforge_test"),
		postgres.WithUsername("projectforge"),
		postgres.WithPassword("projectforge"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := DatabaseConfig{
		Type:     "postgres",
		Host:     host + ":" + port.Port(),
		UserName: "projectforge",
		Password: "projectforge",
		Name:     "projectforge_test",
	}
	db, err := NewDBEngineWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db, ctx, WithConfig(&DatabaseConfig{AutoMigrate: true}))
}

func TestPostgres_ContractAndVisitorbook(t *testing.T) {
	d := setupPostgresDao(t)
	ctx := context.Background()

	contracts := NewContractRepository(d)
	for i, y := range []int{2019, 2022} {
		_, err := contracts.Insert(ctx, &domain.Contract{
			Number: i + 1,
			Date:   time.Date(y, 5, 1, 0, 0, 0, 0, time.Local),
			Title:  "Vertrag",
			Status: domain.ContractStatusDraft,
		})
		require.NoError(t, err)
	}
	years, err := contracts.GetYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2021, 2020, 2019}, years)

	list, err := contracts.GetList(ctx, domain.ContractFilter{SearchString: "VERTRAG", Year: 2022})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Number)

	visitors := NewVisitorbookRepository(d)
	id, err := visitors.Insert(ctx, &domain.Visitorbook{
		Lastname:         "Meier",
		ContactPersonIDs: []int64{1},
		Entries:          []*domain.VisitorbookEntry{{DateOfVisit: time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local), Arrived: "09:00"}},
	})
	require.NoError(t, err)
	v, err := visitors.Find(ctx, id)
	require.NoError(t, err)
	assert.True(t, v.IsActive())
	assert.Equal(t, []int64{1}, v.ContactPersonIDs)
}

package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/dao"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/internal/middleware"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/mailer"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	done chan struct{}
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	cfg := new(AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.Database.Path = ":memory:"
	cfg.Support.Enabled = true
	cfg.Support.Recipients = []string{"support@example.org"}

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)

	a, err := NewApp(cfg, zap.NewNop(), db, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop(), nil)
	assert.Error(t, err)
	_, err = NewApp(&AppConfig{}, nil, nil)
	assert.Error(t, err)
	_, err = NewApp(&AppConfig{}, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestApp_WiresServices(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	edit, err := a.ContractService.Edit(ctx, 1, 0)
	require.NoError(t, err)
	res, err := a.ContractService.Save(ctx, 1, &dto.ContractSaveRequest{
		EditToken: edit.EditToken,
		Title:     "Wartungsvertrag",
		Date:      edit.Data.(*dto.ContractDTO).Date,
	})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, 1, a.EditGuard().Len())

	health := a.HealthService.Check(ctx)
	assert.Equal(t, "ok", health.Status)

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Equal(t, pkgapp.PaginationConfig{DefaultPageSize: 50, MaxPageSize: 500}, a.PaginationConfig())
	assert.Equal(t, Version, a.Version().Version)
}

func TestApp_ReportPanicMailsSupport(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	a := newTestApp(t, WithMailSender(sender))

	a.ReportPanic(middleware.PanicReport{Method: "GET", Path: "/api/contracts", Value: "boom", Time: time.Now()})

	select {
	case <-sender.done:
	case <-time.After(5 * time.Second):
		t.Fatal("support mail was not sent")
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"support@example.org"}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "/api/contracts")
	assert.Contains(t, sender.sent[0].Body, "boom")
}

func TestApp_ShutdownIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Shutdown(context.Background()))
	assert.True(t, a.IsShuttingDown())
	assert.NoError(t, a.Shutdown(context.Background()))
}

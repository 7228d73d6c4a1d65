package service

import (
	"context"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/dto"
	"github.com/haierkeys/projectforge-office-service/pkg/editguard"
	"github.com/haierkeys/projectforge-office-service/pkg/listview"
	"github.com/haierkeys/projectforge-office-service/pkg/util"
	"github.com/haierkeys/projectforge-office-service/pkg/workerpool"
	"github.com/haierkeys/projectforge-office-service/pkg/writequeue"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// HealthService 健康检查
type HealthService interface {
	Check(ctx context.Context) *dto.HealthDTO
}

type healthService struct {
	db      *gorm.DB
	pool    *workerpool.Pool
	queue   *writequeue.Manager
	lists   *listview.Store
	guard   *editguard.Registry
	started time.Time
}

// NewHealthService 创建 HealthService 实例，参数可以为 nil
func NewHealthService(db *gorm.DB, pool *workerpool.Pool, queue *writequeue.Manager, lists *listview.Store, guard *editguard.Registry) HealthService {
	return &healthService{db: db, pool: pool, queue: queue, lists: lists, guard: guard, started: time.Now()}
}

// Check 数据库不可用时 Status 为 degraded
func (s *healthService) Check(ctx context.Context) *dto.HealthDTO {
	out := &dto.HealthDTO{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.db == nil {
			out.Database = "not configured"
			return nil
		}
		sqlDB, err := s.db.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(gctx, 3*time.Second)
			defer cancel()
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			out.Database = err.Error()
			out.Status = "degraded"
		}
		return nil
	})
	g.Go(func() error {
		out.System = util.GetSysInfo(gctx)
		return nil
	})
	_ = g.Wait()

	if s.pool != nil {
		out.WorkerPool = s.pool.GetMetrics()
	}
	if s.queue != nil {
		out.WriteLanes = s.queue.LaneCount()
	}
	if s.lists != nil {
		out.ListViews = s.lists.Len()
	}
	if s.guard != nil {
		out.EditForms = s.guard.Len()
	}
	return out
}

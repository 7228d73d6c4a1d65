package task

import (
	"context"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"

	"go.uber.org/zap"
)

// SweepTask 清理空闲的列表视图、过期的编辑令牌和空闲的写队列
type SweepTask struct {
	app      *app.App
	interval time.Duration
	now      func() time.Time
}

// Name 返回任务名称
func (t *SweepTask) Name() string {
	return "Sweep"
}

// LoopInterval 返回执行间隔
func (t *SweepTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *SweepTask) IsStartupRun() bool {
	return false
}

// Run 执行清理
func (t *SweepTask) Run(ctx context.Context) error {
	now := t.now()
	lists := t.app.ListStore().Sweep(now)
	forms := t.app.EditGuard().Sweep(now)
	lanes := t.app.WriteQueueManager().Sweep(now)

	if lists+forms+lanes > 0 {
		t.app.Logger().Info("task log",
			zap.String("task", t.Name()),
			zap.Int("listViews", lists),
			zap.Int("editForms", forms),
			zap.Int(logger.FieldCount, lanes),
		)
	}
	return nil
}

// NewSweepTask 创建清理任务
func NewSweepTask(appContainer *app.App) (Task, error) {
	return &SweepTask{
		app:      appContainer,
		interval: appContainer.Config().GetSweepInterval(),
		now:      time.Now,
	}, nil
}

func init() {
	Register(NewSweepTask)
}

package task

import (
	"context"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ContractReminderTask 按 contract.reminder-cron 发送当天需再提交或到期的合同清单
type ContractReminderTask struct {
	app  *app.App
	spec string
	now  func() time.Time
}

// Name 返回任务名称
func (t *ContractReminderTask) Name() string {
	return "ContractReminder"
}

// Spec 返回 cron 表达式
func (t *ContractReminderTask) Spec() string {
	return t.spec
}

// LoopInterval 按 cron 执行
func (t *ContractReminderTask) LoopInterval() time.Duration {
	return 0
}

// IsStartupRun 是否立即执行一次
func (t *ContractReminderTask) IsStartupRun() bool {
	return false
}

// Run 在 Worker Pool 中查询并发送提醒
func (t *ContractReminderTask) Run(ctx context.Context) error {
	day := t.now()
	return t.app.WorkerPool().Submit(ctx, t.Name(), func(ctx context.Context) error {
		n, err := t.app.ReminderService.SendDueReminders(ctx, day)
		if err != nil {
			return err
		}
		t.app.Logger().Info("task log",
			zap.String("task", t.Name()),
			zap.Int(logger.FieldCount, n),
		)
		return nil
	})
}

// NewContractReminderTask 创建提醒任务，没有配置 cron 或收件人时不启用
func NewContractReminderTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config().Contract
	if cfg.ReminderCron == "" || len(cfg.ReminderRecipients) == 0 {
		appContainer.Logger().Info("contract reminder is disabled")
		return nil, nil
	}
	if _, err := ParseSpec(cfg.ReminderCron); err != nil {
		return nil, errors.Wrapf(err, "contract.reminder-cron %q", cfg.ReminderCron)
	}
	return &ContractReminderTask{
		app:  appContainer,
		spec: cfg.ReminderCron,
		now:  time.Now,
	}, nil
}

func init() {
	Register(NewContractReminderTask)
}

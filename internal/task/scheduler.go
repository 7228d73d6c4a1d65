package task

import (
	"context"
	"time"

	"github.com/haierkeys/projectforge-office-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔，<= 0 时不按间隔执行
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask 按 cron 表达式执行的任务，LoopInterval 被忽略
type CronTask interface {
	Task
	Spec() string
}

// cronParser 五段式 cron 表达式，另外支持 @daily、@every 1h 等写法
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSpec 校验 cron 表达式
func ParseSpec(spec string) (cron.Schedule, error) {
	return cronParser.Parse(spec)
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	cron   *cron.Cron
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() error {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return nil
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	cronJobs := 0
	for _, task := range s.tasks {
		if ct, ok := task.(CronTask); ok {
			if err := s.addCron(ct); err != nil {
				return err
			}
			cronJobs++
			continue
		}
		s.startTask(task)
	}

	if cronJobs > 0 {
		s.cron.Start()
		s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			// 等待正在执行的 cron 任务结束
			<-s.cron.Stop().Done()
			s.logger.Info("cron stopped")
		})
	}
	return nil
}

func (s *Scheduler) addCron(task CronTask) error {
	_, err := s.cron.AddFunc(task.Spec(), func() {
		s.run(task, "cronRun")
	})
	if err != nil {
		s.logger.Error("invalid cron spec", zap.String("name", task.Name()), zap.String("spec", task.Spec()), zap.Error(err))
		return err
	}
	s.logger.Info("task scheduled", zap.String("name", task.Name()), zap.String("spec", task.Spec()))
	if task.IsStartupRun() {
		go s.run(task, "startupRun")
	}
	return nil
}

// run 执行一次任务，panic 只记录日志
func (s *Scheduler) run(task Task, kind string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("type", kind),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	start := time.Now()
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("type", kind),
			zap.Error(err))
		return
	}
	s.logger.Debug("task done",
		zap.String("name", task.Name()),
		zap.String("type", kind),
		zap.Duration("duration", time.Since(start)))
}

// startTask 启动单个间隔任务
func (s *Scheduler) startTask(task Task) {

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		// 如果任务需要立即执行
		if task.IsStartupRun() {
			go s.run(task, "startupRun")
		}

		if task.LoopInterval() <= 0 {
			return
		}

		ticker := time.NewTicker(task.LoopInterval())
		defer ticker.Stop()

		// 定时执行
		for {
			select {
			case <-ticker.C:
				s.run(task, "loopRun")
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

// cronLogger 把 cron 的日志转给 zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Package workerpool 提供有界的后台任务池
// 用于异步发送邮件等不阻塞请求的任务
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 任务队列已满
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 任务池已关闭
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 任务在执行前被取消
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config Worker Pool 配置
type Config struct {
	MaxWorkers  int           // 最大并发 worker 数量，默认 8
	QueueSize   int           // 任务队列大小，默认 256
	TaskTimeout time.Duration // 单个任务的最长执行时间，默认 1 分钟
}

func (c *Config) normalize() {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 8
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = time.Minute
	}
}

// Task is a named unit of background work.
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
	done chan error
}

// Pool runs tasks on a fixed set of workers.
type Pool struct {
	cfg    Config
	logger *zap.Logger

	tasks chan Task
	wg    sync.WaitGroup

	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// New 创建并启动 Worker Pool
func New(cfg Config, logger *zap.Logger) *Pool {
	cfg.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		cfg:    cfg,
		logger: logger,
		tasks:  make(chan Task, cfg.QueueSize),
	}
	for i := 0; i < cfg.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", cfg.MaxWorkers),
		zap.Int("queueSize", cfg.QueueSize))
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.exec(t)
	}
}

func (p *Pool) exec(t Task) {
	p.active.Add(1)
	defer p.active.Add(-1)

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.TaskTimeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("worker pool task panic", zap.String("task", t.Name), zap.Any("panic", r))
				err = errors.New("task panic")
			}
		}()
		return t.Fn(ctx)
	}()

	if err != nil {
		p.failed.Add(1)
		p.logger.Warn("worker pool task failed", zap.String("task", t.Name), zap.Error(err))
	} else {
		p.completed.Add(1)
	}
	if t.done != nil {
		t.done <- err
	}
}

func (p *Pool) enqueue(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Go 异步提交任务，不等待结果
func (p *Pool) Go(name string, fn func(ctx context.Context) error) error {
	err := p.enqueue(Task{Name: name, Fn: fn})
	if err != nil {
		p.logger.Warn("worker pool rejected task", zap.String("task", name), zap.Error(err))
	}
	return err
}

// Submit 提交任务并等待执行结果
func (p *Pool) Submit(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	done := make(chan error, 1)
	if err := p.enqueue(Task{Name: name, Fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrTaskCancelled
	}
}

// Shutdown 停止接收新任务并等待队列排空
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timeout", zap.Int("queued", len(p.tasks)))
		return ctx.Err()
	}
}

// Metrics Worker Pool 指标快照
type Metrics struct {
	MaxWorkers int   `json:"maxWorkers"`
	Active     int64 `json:"active"`
	Queued     int   `json:"queued"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// GetMetrics 获取当前指标
func (p *Pool) GetMetrics() Metrics {
	return Metrics{
		MaxWorkers: p.cfg.MaxWorkers,
		Active:     p.active.Load(),
		Queued:     len(p.tasks),
		Completed:  p.completed.Load(),
		Failed:     p.failed.Load(),
	}
}

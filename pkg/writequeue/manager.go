// Package writequeue serializes database writes per lane.
// 同一 lane（实体类型）的写操作按 FIFO 顺序串行执行，避免 SQLite 报 "database is locked"
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull lane 队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 等待写操作超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	QueueCapacity int           // 每个 lane 的队列容量，默认 64
	WriteTimeout  time.Duration // 等待单个写操作的最长时间，默认 30 秒
	IdleTimeout   time.Duration // lane 空闲多久后回收，默认 10 分钟
}

func (c *Config) normalize() {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 64
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 10 * time.Minute
	}
}

type op struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

type lane struct {
	name     string
	ops      chan op
	lastUsed time.Time
	done     chan struct{}
}

// Manager owns one worker goroutine per active lane.
type Manager struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[string]*lane
	closed bool
	wg     sync.WaitGroup
}

// New 创建写队列管理器
func New(cfg Config, logger *zap.Logger) *Manager {
	cfg.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		cfg:    cfg,
		logger: logger,
		lanes:  make(map[string]*lane),
	}
	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", cfg.QueueCapacity),
		zap.Duration("writeTimeout", cfg.WriteTimeout))
	return m
}

// Execute 将 fn 放入 key 对应的 lane 并等待其完成
func (m *Manager) Execute(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	result := make(chan error, 1)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrWriteQueueClosed
	}
	l := m.laneLocked(key)
	l.lastUsed = time.Now()
	select {
	case l.ops <- op{ctx: ctx, fn: fn, result: result}:
	default:
		m.mu.Unlock()
		return ErrWriteQueueFull
	}
	m.mu.Unlock()

	timer := time.NewTimer(m.cfg.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func (m *Manager) laneLocked(key string) *lane {
	if l, ok := m.lanes[key]; ok {
		return l
	}
	l := &lane{
		name: key,
		ops:  make(chan op, m.cfg.QueueCapacity),
		done: make(chan struct{}),
	}
	m.lanes[key] = l
	m.wg.Add(1)
	go m.work(l)
	m.logger.Debug("write queue lane created", zap.String("lane", key))
	return l
}

func (m *Manager) work(l *lane) {
	defer m.wg.Done()
	defer close(l.done)
	for o := range l.ops {
		if err := o.ctx.Err(); err != nil {
			o.result <- err
			continue
		}
		o.result <- o.fn(o.ctx)
	}
}

// Sweep 回收空闲且队列为空的 lane，返回回收数量
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, l := range m.lanes {
		if len(l.ops) == 0 && now.Sub(l.lastUsed) > m.cfg.IdleTimeout {
			close(l.ops)
			delete(m.lanes, key)
			n++
		}
	}
	if n > 0 {
		m.logger.Debug("write queue lanes swept", zap.Int("count", n))
	}
	return n
}

// Shutdown 停止接收新写操作并等待所有 lane 排空
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for key, l := range m.lanes {
		close(l.ops)
		delete(m.lanes, key)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// LaneCount 当前活跃 lane 数量
func (m *Manager) LaneCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}

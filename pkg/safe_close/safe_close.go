// Package safe_close coordinates graceful shutdown of long running goroutines.
package safe_close

import (
	"sync"
)

// SafeClose 关闭协调器
// 通过 Attach 注册的协程收到关闭信号后执行清理，并调用 done 通知完成
type SafeClose struct {
	signal   chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex
	firstErr error
}

// NewSafeClose 创建关闭协调器
func NewSafeClose() *SafeClose {
	return &SafeClose{signal: make(chan struct{})}
}

// Attach 启动一个受管协程
// fn 必须在退出时调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	go fn(func() { doneOnce.Do(s.wg.Done) }, s.signal)
}

// SendCloseSignal 广播关闭信号，只有第一次调用生效
// err 不为空时作为关闭原因被记录
func (s *SafeClose) SendCloseSignal(err error) {
	if err != nil {
		s.mu.Lock()
		if s.firstErr == nil {
			s.firstErr = err
		}
		s.mu.Unlock()
	}
	s.once.Do(func() { close(s.signal) })
}

// Closed 返回关闭信号通道
func (s *SafeClose) Closed() <-chan struct{} {
	return s.signal
}

// WaitClosed 等待所有受管协程完成，返回触发关闭的第一个错误
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

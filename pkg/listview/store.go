package listview

import (
	"sync"
	"time"
)

// View is the type independent part of a Provider held by the Store.
type View interface {
	Name() string
	Refresh()
	LastAccess() time.Time
}

type storeKey struct {
	uid  int64
	list string
}

// Store 按 (用户, 列表键) 保存列表视图，空闲超过 idleTTL 的视图由 Sweep 回收
type Store struct {
	mu      sync.Mutex
	views   map[storeKey]View
	idleTTL time.Duration
	metrics *Metrics
}

// NewStore 创建视图存储
func NewStore(idleTTL time.Duration, metrics *Metrics) *Store {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Store{
		views:   make(map[storeKey]View),
		idleTTL: idleTTL,
		metrics: metrics,
	}
}

// Metrics 存储使用的指标
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// Load 获取用户的列表视图，不存在或类型不匹配时用 create 创建
func Load[T any, F any](s *Store, uid int64, list string, create func() *Provider[T, F]) *Provider[T, F] {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey{uid: uid, list: list}
	if v, ok := s.views[key]; ok {
		if p, ok := v.(*Provider[T, F]); ok {
			return p
		}
	}
	p := create()
	s.views[key] = p
	s.metrics.setProviders(len(s.views))
	return p
}

// Remove 删除用户的列表视图
func (s *Store) Remove(uid int64, list string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, storeKey{uid: uid, list: list})
	s.metrics.setProviders(len(s.views))
}

// RefreshList 将所有用户的该列表标记为脏，写操作之后调用
func (s *Store) RefreshList(list string) int {
	s.mu.Lock()
	views := make([]View, 0)
	for k, v := range s.views {
		if k.list == list {
			views = append(views, v)
		}
	}
	s.mu.Unlock()

	for _, v := range views {
		v.Refresh()
	}
	return len(views)
}

// Sweep 回收空闲视图，返回回收数量
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, v := range s.views {
		if now.Sub(v.LastAccess()) > s.idleTTL {
			delete(s.views, k)
			n++
		}
	}
	s.metrics.setProviders(len(s.views))
	return n
}

// Len 当前视图数量
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

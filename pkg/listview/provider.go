// Package listview implements sorted, filtered and paginated list views.
//
// A Provider caches the sorted id list of the last query and serves
// pagination windows by re-fetching only the rows of the window. The cache
// is rebuilt when the filter or the sort changes or Refresh is called.
package listview

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Source 列表数据源
type Source[T any, F any] interface {
	// GetList 返回符合 filter 的全部记录
	GetList(ctx context.Context, filter F) ([]T, error)
	// Select 返回指定 id 的记录，顺序任意，已不存在的 id 可以缺失
	Select(ctx context.Context, ids []int64) ([]T, error)
}

// Provider 单个列表视图的状态
type Provider[T any, F any] struct {
	mu sync.Mutex

	name    string
	source  Source[T, F]
	idOf    func(T) int64
	metrics *Metrics

	filter     F
	filterHash uint64
	sort       SortSpec

	ids   []int64
	dirty bool

	lastAccess time.Time
}

// NewProvider 创建列表视图，初始为脏状态，第一次取页时加载
func NewProvider[T any, F any](name string, source Source[T, F], idOf func(T) int64, metrics *Metrics) *Provider[T, F] {
	p := &Provider[T, F]{
		name:       name,
		source:     source,
		idOf:       idOf,
		metrics:    metrics,
		dirty:      true,
		lastAccess: time.Now(),
	}
	p.filterHash, _ = hashFilter(p.filter)
	return p
}

// Name 列表键
func (p *Provider[T, F]) Name() string {
	return p.name
}

func hashFilter(filter any) (uint64, error) {
	b, err := sonic.Marshal(filter)
	if err != nil {
		return 0, errors.Wrap(err, "listview: encode filter")
	}
	return xxh3.Hash(b), nil
}

// SetFilter 设置过滤条件，条件内容变化时标记为脏，返回是否变化
func (p *Provider[T, F]) SetFilter(filter F) (bool, error) {
	h, err := hashFilter(filter)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()

	p.filter = filter
	if h == p.filterHash {
		return false, nil
	}
	p.filterHash = h
	p.dirty = true
	return true, nil
}

// Filter 当前过滤条件
func (p *Provider[T, F]) Filter() F {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// SetSort 设置排序，排序变化时标记为脏
func (p *Provider[T, F]) SetSort(spec SortSpec) error {
	if err := ValidateSort[T](spec); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()

	if spec != p.sort {
		p.sort = spec
		p.dirty = true
	}
	return nil
}

// Sort 当前排序
func (p *Provider[T, F]) Sort() SortSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sort
}

// Refresh 标记为脏，下一次取页时重新查询
func (p *Provider[T, F]) Refresh() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// Dirty 是否需要重新查询
func (p *Provider[T, F]) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// LastAccess 最后一次访问时间
func (p *Provider[T, F]) LastAccess() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAccess
}

func (p *Provider[T, F]) touch() {
	p.lastAccess = time.Now()
}

// reload runs the query, sorts and caches the id list. Caller holds mu.
func (p *Provider[T, F]) reload(ctx context.Context) error {
	rows, err := p.source.GetList(ctx, p.filter)
	if err != nil {
		return err
	}
	if !p.sort.IsZero() {
		compare, err := Comparator[T](p.sort)
		if err != nil {
			return err
		}
		slices.SortStableFunc(rows, compare)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = p.idOf(row)
	}
	p.ids = ids
	p.dirty = false
	p.metrics.reloaded(p.name)
	return nil
}

// Size 结果总数
func (p *Provider[T, F]) Size(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()

	if p.dirty {
		if err := p.reload(ctx); err != nil {
			return 0, err
		}
	}
	return len(p.ids), nil
}

// IDs 返回缓存的有序 id 列表副本
func (p *Provider[T, F]) IDs(ctx context.Context) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()

	if p.dirty {
		if err := p.reload(ctx); err != nil {
			return nil, err
		}
	}
	return slices.Clone(p.ids), nil
}

// Page 返回 [offset, offset+limit) 窗口内的记录以及结果总数
// 只有脏状态时才重新查询；窗口内的记录通过 Select 重新获取并按缓存的 id 顺序排列，
// 期间已被删除的记录会被跳过
func (p *Provider[T, F]) Page(ctx context.Context, offset, limit int) ([]T, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()

	if p.dirty {
		if err := p.reload(ctx); err != nil {
			return nil, 0, err
		}
	} else {
		p.metrics.hit(p.name)
	}

	total := len(p.ids)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []T{}, total, nil
	}
	end := min(offset+limit, total)
	window := p.ids[offset:end]

	rows, err := p.source.Select(ctx, slices.Clone(window))
	if err != nil {
		return nil, total, err
	}
	p.metrics.windowFetched(p.name)

	byID := make(map[int64]T, len(rows))
	for _, row := range rows {
		byID[p.idOf(row)] = row
	}
	out := make([]T, 0, len(window))
	for _, id := range window {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out, total, nil
}

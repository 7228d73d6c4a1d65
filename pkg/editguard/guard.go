// Package editguard prevents an edit form from being submitted twice.
//
// A token is issued whenever an edit form is rendered. Submitting runs the
// write at most once per token: a second submit of the same token is
// rejected while the first one is running or after it succeeded. A failed
// write clears the flag so the corrected form can be sent again.
package editguard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrAlreadySubmitted 同一个表单已经提交过
	ErrAlreadySubmitted = errors.New("editguard: form already submitted")
	// ErrUnknownToken token 不存在或已过期
	ErrUnknownToken = errors.New("editguard: unknown or expired token")
	// ErrTokenMismatch token 属于其他用户或其他实体
	ErrTokenMismatch = errors.New("editguard: token does not belong to this form")
)

// Scope 表单归属：用户、实体类型与实体 ID（新建时为 0）
type Scope struct {
	UID      int64
	Entity   string
	EntityID int64
}

type form struct {
	mu        sync.Mutex
	scope     Scope
	submitted bool
	lastUsed  time.Time
}

// Registry 保存所有已渲染表单的提交状态
type Registry struct {
	mu    sync.Mutex
	forms map[string]*form
	ttl   time.Duration

	rejected prometheus.Counter
}

// New 创建表单注册表，ttl 为表单空闲过期时间
func New(ttl time.Duration, reg prometheus.Registerer) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	r := &Registry{
		forms: make(map[string]*form),
		ttl:   ttl,
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projectforge",
			Subsystem: "editguard",
			Name:      "rejected_submits_total",
			Help:      "Number of duplicate form submissions rejected.",
		}),
	}
	if reg != nil {
		if err := reg.Register(r.rejected); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if c, ok := are.ExistingCollector.(prometheus.Counter); ok {
					r.rejected = c
				}
			}
		}
	}
	return r
}

// Issue 渲染编辑表单时调用，返回未提交状态的新 token
func (r *Registry) Issue(scope Scope) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.forms[token] = &form{scope: scope, lastUsed: time.Now()}
	r.mu.Unlock()
	return token
}

func (r *Registry) lookup(token string) (*form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[token]
	if !ok {
		return nil, false
	}
	if time.Since(f.lastUsed) > r.ttl {
		delete(r.forms, token)
		return nil, false
	}
	f.lastUsed = time.Now()
	return f, true
}

// Do 以 token 对应的表单锁执行 fn
// 已提交过的 token 直接返回 ErrAlreadySubmitted，不调用 fn；
// fn 返回错误时清除提交标记，允许修正后再次提交
func (r *Registry) Do(token string, scope Scope, fn func() error) error {
	f, ok := r.lookup(token)
	if !ok {
		return ErrUnknownToken
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scope != scope {
		return ErrTokenMismatch
	}
	if f.submitted {
		r.rejected.Inc()
		return ErrAlreadySubmitted
	}
	f.submitted = true
	if err := fn(); err != nil {
		f.submitted = false
		return err
	}
	return nil
}

// Submitted 表单是否已成功提交
func (r *Registry) Submitted(token string) bool {
	f, ok := r.lookup(token)
	if !ok {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// Sweep 删除过期表单，返回删除数量
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for token, f := range r.forms {
		if now.Sub(f.lastUsed) > r.ttl {
			delete(r.forms, token)
			n++
		}
	}
	return n
}

// Len 当前表单数量
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

package listview

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 列表视图的 prometheus 指标，nil 时不记录
type Metrics struct {
	reloads   *prometheus.CounterVec
	windows   *prometheus.CounterVec
	hits      *prometheus.CounterVec
	providers prometheus.Gauge
}

// NewMetrics 创建并注册指标；重复注册时复用已注册的 collector
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projectforge",
			Subsystem: "listview",
			Name:      "reloads_total",
			Help:      "Number of list queries executed because the cached id list was dirty.",
		}, []string{"list"}),
		windows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projectforge",
			Subsystem: "listview",
			Name:      "window_fetches_total",
			Help:      "Number of pagination windows fetched by id.",
		}, []string{"list"}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projectforge",
			Subsystem: "listview",
			Name:      "cache_hits_total",
			Help:      "Number of pages served from the cached id list.",
		}, []string{"list"}),
		providers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "projectforge",
			Subsystem: "listview",
			Name:      "providers",
			Help:      "Number of list views held in the store.",
		}),
	}
	if reg == nil {
		return m
	}
	m.reloads = register(reg, m.reloads)
	m.windows = register(reg, m.windows)
	m.hits = register(reg, m.hits)
	m.providers = register(reg, m.providers)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) reloaded(list string) {
	if m != nil {
		m.reloads.WithLabelValues(list).Inc()
	}
}

func (m *Metrics) windowFetched(list string) {
	if m != nil {
		m.windows.WithLabelValues(list).Inc()
	}
}

func (m *Metrics) hit(list string) {
	if m != nil {
		m.hits.WithLabelValues(list).Inc()
	}
}

func (m *Metrics) setProviders(n int) {
	if m != nil {
		m.providers.Set(float64(n))
	}
}

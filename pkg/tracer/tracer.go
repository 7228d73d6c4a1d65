// Package tracer 初始化 jaeger 并注册为 opentracing 全局 tracer
package tracer

import (
	"io"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Config jaeger 上报配置
type Config struct {
	ServiceName string
	// AgentHostPort jaeger agent 地址，例如 127.0.0.1:6831
	AgentHostPort string
	// SampleRate 采样比例，0 到 1
	SampleRate float64
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 创建 jaeger tracer 并设置为全局 tracer
// AgentHostPort 为空时使用 opentracing.NoopTracer，不上报任何数据
func New(cfg Config) (opentracing.Tracer, io.Closer, error) {
	if cfg.AgentHostPort == "" {
		t := opentracing.NoopTracer{}
		opentracing.SetGlobalTracer(t)
		return t, nopCloser{}, nil
	}

	sampler := &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1}
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		sampler = &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeProbabilistic, Param: cfg.SampleRate}
	}

	jc := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName,
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:            false,
			BufferFlushInterval: time.Second,
			LocalAgentHostPort:  cfg.AgentHostPort,
		},
	}
	t, closer, err := jc.NewTracer()
	if err != nil {
		return nil, nil, errors.Wrap(err, "tracer: create jaeger tracer")
	}
	opentracing.SetGlobalTracer(t)
	return t, closer, nil
}

package tracer

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutAgentIsNoop(t *testing.T) {
	tr, closer, err := New(Config{ServiceName: "office"})
	require.NoError(t, err)
	assert.IsType(t, opentracing.NoopTracer{}, tr)
	assert.IsType(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
	assert.NoError(t, closer.Close())
}

func TestNew_Jaeger(t *testing.T) {
	tr, closer, err := New(Config{ServiceName: "office", AgentHostPort: "127.0.0.1:6831", SampleRate: 0.5})
	require.NoError(t, err)
	defer closer.Close()

	span := tr.StartSpan("test")
	span.Finish()
	assert.Same(t, tr, opentracing.GlobalTracer())
}

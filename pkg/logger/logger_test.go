package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "access.log")
	l, err := New(Config{Level: "info", Env: "prod", File: file})
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestTraceFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)

	Info(context.Background(), l, "plain")
	assert.Empty(t, logs.All()[0].ContextMap()["trace_id"])

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	Warn(ctx, l, "traced", zap.String("mbl", "MBL-1"))
	fields := logs.All()[1].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, "MBL-1", fields["mbl"])
}

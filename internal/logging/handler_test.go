package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "bad json: %s", buf.String())
	return entry
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("mazeh-backend", "1.2.3", "json", false, &buf)

	logger.Info("hello")

	entry := decode(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "mazeh-backend", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.NotContains(t, entry, "trace_id")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("mazeh-backend", "dev", "text", false, &buf)

	logger.Info("plain")

	assert.Contains(t, buf.String(), "plain")
	assert.Contains(t, buf.String(), "service=mazeh-backend")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup("svc", "dev", "json", false, &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	Setup("svc", "dev", "json", true, &buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("svc", "dev", "json", false, &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "traced")

	entry := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_WithAttrsKeepsService(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("svc", "dev", "json", false, &buf).With("component", "auth")

	logger.Info("x")

	entry := decode(t, &buf)
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "svc", entry["service"])
}

func TestLogError_Oops(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("svc", "dev", "json", false, &buf)

	err := oops.Code("USER_CREATE_FAILED").With("email", "a@b.c").Wrap(errors.New("boom"))
	LogError(context.Background(), logger, "create failed", err)

	entry := decode(t, &buf)
	assert.Equal(t, "create failed", entry["msg"])
	assert.Equal(t, "USER_CREATE_FAILED", entry["code"])
	assert.Contains(t, entry, "context")
}

func TestLogError_Plain(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("svc", "dev", "json", false, &buf)

	LogError(context.Background(), logger, "failed", errors.New("plain"))

	entry := decode(t, &buf)
	assert.Equal(t, "plain", entry["error"])
	assert.NotContains(t, entry, "code")
}

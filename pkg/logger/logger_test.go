package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_EmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("dentalcare-admin", "info", &buf)

	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dentalcare-admin", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("dentalcare-admin", "warn", &buf)

	l.Info("filtered")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-1")
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestScopeID_RoundTrip(t *testing.T) {
	ctx := WithScopeID(context.Background(), "scope-1")
	assert.Equal(t, "scope-1", ScopeIDFromContext(ctx))
	assert.Empty(t, ScopeIDFromContext(context.Background()))
}

func TestWithContext_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("dentalcare-admin", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-2")
	ctx = WithScopeID(ctx, "scope-2")

	WithContext(ctx, base).Info("tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-2", entry["correlation_id"])
	assert.Equal(t, "scope-2", entry["scope_id"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("dentalcare-admin", "info", &buf)
	ctx := NewContext(context.Background(), l)

	FromContext(ctx).Info("stored")
	assert.Contains(t, buf.String(), "stored")
}

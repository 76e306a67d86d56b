package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestZap(t *testing.T) (*ZapLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(&buf), zapcore.DebugLevel)
	return NewZapLogger(zap.New(core)), &buf
}

func TestZapLogger_WritesFieldsAsJSON(t *testing.T) {
	log, buf := newTestZap(t)
	ctx := context.Background()

	log.With("component", "storage").Warn(ctx, "slow query", "op", "add_user")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "slow query", line["msg"])
	assert.Equal(t, "storage", line["component"])
	assert.Equal(t, "add_user", line["op"])
}

func TestZapLogger_AllLevels(t *testing.T) {
	log, buf := newTestZap(t)
	ctx := context.Background()

	log.Debug(ctx, "d")
	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	log.Error(ctx, "e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	for i, lvl := range []string{"debug", "info", "warn", "error"} {
		assert.Contains(t, lines[i], `"level":"`+lvl+`"`)
	}
}

func TestNew_Backends(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(BackendSlog, &buf)
	require.NoError(t, err)
	l.Info(context.Background(), "hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	l, err = New(BackendZap, &buf)
	require.NoError(t, err)
	l.Info(context.Background(), "hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	_, err = New("logrus", &buf)
	assert.Error(t, err)
}

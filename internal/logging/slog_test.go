package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.key+"="+tc.val)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "projects", "op", "donate").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "module=projects", "op=donate", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestZapLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf)

	log.With("module", "grpc_server").Warn(context.Background(), "closed by non-owner", "caller", "abc")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"msg":"closed by non-owner"`)
	assert.Contains(t, out, `"module":"grpc_server"`)
	assert.Contains(t, out, `"caller":"abc"`)
}

func TestWithFields_PrecedeCallArgs(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := WithFields(context.Background(), "method", "/fundingme.v1.FundingService/Donate")
	ctx = WithFields(ctx, "caller", "alice")

	log.Info(ctx, "donation accepted", "amount", 600)

	out := buf.String()
	assert.Contains(t, out, "method=/fundingme.v1.FundingService/Donate caller=alice amount=600")
	assert.Equal(t, []any{"method", "/fundingme.v1.FundingService/Donate", "caller", "alice"}, Fields(ctx))
}

func TestWithFields_NoArgsKeepsContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithFields(ctx))
	assert.Nil(t, Fields(ctx))
}

func TestSlogLogger_SkipsDisabledLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	log.Info(context.Background(), "quiet")
	log.Warn(context.Background(), "loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestZapLogger_IncludesContextFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf)
	log.Info(WithFields(context.Background(), "method", "Withdraw"), "paid")
	assert.Contains(t, buf.String(), `"method":"Withdraw"`)
}

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range []string{"", FormatJSON, FormatText, FormatZap} {
		l, err := New(f, &buf)
		require.NoError(t, err, f)
		require.NotNil(t, l)
	}

	_, err := New("xml", &buf)
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	var l Logger = Nop{}
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.With("a", 1).Info(ctx, "y")
}

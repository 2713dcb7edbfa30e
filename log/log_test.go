package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRoot(t *testing.T, l Logger) {
	prev := Root()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })
}

func TestModuleFiltering(t *testing.T) {
	var buf bytes.Buffer
	withRoot(t, NewLogger(NewTerminalHandlerWithLevel(&buf, LevelTrace, false)))

	DisableModule(PaddingMonitoring)
	Debug(PaddingMonitoring, "hidden", "n", 3)
	assert.Empty(t, buf.String())

	EnableModule(PaddingMonitoring)
	t.Cleanup(func() { DisableModule(PaddingMonitoring) })
	Debug(PaddingMonitoring, "nop padding", "n", 3)
	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "nop padding")
	assert.Contains(t, out, "module=x86_pad")
	assert.Contains(t, out, "n=3")
}

func TestInfoIgnoresModules(t *testing.T) {
	var buf bytes.Buffer
	withRoot(t, NewLogger(JSONHandler(&buf, LevelInfo)))

	Info(CLIMonitoring, "encoded", "bytes", 12)
	Debug(CLIMonitoring, "dropped by level")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "encoded", rec["msg"])
	assert.Equal(t, "jitasm", rec["module"])
	assert.Equal(t, float64(12), rec["bytes"])
}

func TestEnableModules(t *testing.T) {
	EnableModules(" x86_label , all")
	t.Cleanup(func() {
		for _, m := range KnownModules() {
			DisableModule(m)
		}
	})
	for _, m := range KnownModules() {
		assert.True(t, IsModuleEnabled(m), m)
	}
	assert.False(t, IsModuleEnabled("unknown"))
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"trace": LevelTrace, "DEBUG": LevelDebug, "info": LevelInfo,
		"warning": LevelWarn, "error": LevelError, "crit": LevelCrit,
	} {
		lvl, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, lvl, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Error(t, InitLogger("loud"))

	assert.Equal(t, "INFO ", LevelAlignedString(LevelInfo))
	assert.Equal(t, "TRACE", LevelAlignedString(LevelTrace))
	assert.Equal(t, "warn", LevelString(LevelWarn))
	assert.Equal(t, "unknown", LevelString(slog.Level(3)))
}

func TestDiscardHandler(t *testing.T) {
	l := NewLogger(DiscardHandler())
	assert.False(t, l.Enabled(context.Background(), LevelCrit))
	l.Info(EncoderMonitoring, "nothing")
}

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter()
	entry := &LogEntry{
		Time:     time.Now(),
		Level:    LogLevelInfo,
		Category: "Test",
		Message:  "Hello",
		Fields:   []Field{{Key: "key", Value: "val"}},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	str := string(out)
	assert.Contains(t, str, "INFO")
	assert.Contains(t, str, "[Test]")
	assert.Contains(t, str, "Hello")
	assert.Contains(t, str, "key=val")
	assert.True(t, strings.HasSuffix(str, "\n"))
}

func TestJsonFormatter(t *testing.T) {
	f := NewJsonFormatter()
	entry := &LogEntry{
		Time:     time.Now(),
		Level:    LogLevelDebug,
		Category: "di",
		Message:  "Hello",
		Fields: []Field{
			F("key", "val"),
			F("type", reflect.TypeOf(0)),
			F("err", errors.New("boom")),
		},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(out, &data))

	assert.Equal(t, "DEBUG", data["level"])
	assert.Equal(t, "di", data["category"])
	fields, ok := data["fields"].(map[string]any)
	require.True(t, ok, "expected fields map")
	assert.Equal(t, "val", fields["key"])
	assert.Equal(t, "int", fields["type"])
	assert.Equal(t, "boom", fields["err"])
}

func TestConsoleLogger_MinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(ConsoleLoggerOptions{
		MinimumLevel: LogLevelInfo,
		Formatter:    &TextFormatter{},
		Output:       &buf,
	})

	log.Debug("hidden")
	log.Info("shown", F("n", 1))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO shown {n=1}")
	assert.False(t, log.Enabled(LogLevelDebug))
	assert.True(t, log.Enabled(LogLevelError))
}

func TestConsoleLogger_WithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleLogger(ConsoleLoggerOptions{
		MinimumLevel: LogLevelTrace,
		Formatter:    &TextFormatter{},
		Output:       &buf,
	}).WithCategory("di")

	a := base.WithFields(F("a", 1))
	b := base.WithFields(F("b", 2))

	a.Trace("first")
	b.Trace("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "TRACE [di] first {a=1}", lines[0])
	assert.Equal(t, "TRACE [di] second {b=2}", lines[1])
}

func TestConsoleLogger_FormatterFunc(t *testing.T) {
	var buf bytes.Buffer
	var entries []LogEntry
	log := NewConsoleLogger(ConsoleLoggerOptions{
		MinimumLevel: LogLevelDebug,
		Output:       &buf,
		Formatter: FormatterFunc(func(entry *LogEntry) ([]byte, error) {
			entries = append(entries, *entry)
			return []byte(entry.Category + ":" + entry.Message + "\n"), nil
		}),
	}).WithCategory("di")

	log.Debug("provider registered", F("type", "*app.Service"))

	require.Len(t, entries, 1)
	assert.Equal(t, LogLevelDebug, entries[0].Level)
	assert.Equal(t, []Field{F("type", "*app.Service")}, entries[0].Fields)
	assert.Equal(t, "di:provider registered\n", buf.String())
}

func TestNopLogger(t *testing.T) {
	log := Nop().WithCategory("x").WithFields(F("k", "v"))
	log.Error("ignored")
	assert.False(t, log.Enabled(LogLevelError))
}

func TestCompositeLogger(t *testing.T) {
	var first, second bytes.Buffer
	log := NewCompositeLogger(
		NewConsoleLogger(ConsoleLoggerOptions{Formatter: &TextFormatter{}, Output: &first}),
		NewConsoleLogger(ConsoleLoggerOptions{MinimumLevel: LogLevelError, Formatter: &TextFormatter{}, Output: &second}),
	)

	log.Warn("careful")

	assert.Contains(t, first.String(), "careful")
	assert.Empty(t, second.String())
	assert.True(t, log.Enabled(LogLevelWarn))
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core)).WithCategory("di").WithFields(F("container", "root"))

	log.Trace("trace maps to debug", F("type", reflect.TypeOf("")))
	log.Info("info", F("err", errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "di", entries[0].LoggerName)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "root", ctx["container"])
	assert.Equal(t, "string", ctx["type"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["err"])
}

func TestZapLogger_Enabled(t *testing.T) {
	core, _ := observer.New(zapcore.WarnLevel)
	log := NewZapLogger(zap.New(core))

	assert.False(t, log.Enabled(LogLevelDebug))
	assert.True(t, log.Enabled(LogLevelWarn))
	assert.False(t, log.Enabled(LogLevelOff))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"WARN", LogLevelWarn, false},
		{"", LogLevelInfo, false},
		{"off", LogLevelOff, false},
		{"loud", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger is a Logger that also records every entry for assertions.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger writes through to the test output and captures entries at
// debug level and above.
func NewTestLogger(tb zaptest.TestingT) *TestLogger {
	core, observed := observer.New(zapcore.DebugLevel)
	tee := zapcore.NewTee(core, zaptest.NewLogger(tb).Core())
	return &TestLogger{
		Logger:   &Logger{Logger: zap.New(tee).Named(LoggerName)},
		observed: observed,
	}
}

// GetLogs returns captured messages in order.
func (tl *TestLogger) GetLogs() []string {
	entries := tl.observed.All()
	logs := make([]string, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, e.Message)
	}
	return logs
}

// FilterField returns captured entries carrying the given string field.
func (tl *TestLogger) FilterField(key, value string) []observer.LoggedEntry {
	return tl.observed.FilterField(zap.String(key, value)).All()
}

func (tl *TestLogger) PrintLogs(t *testing.T) {
	t.Log("Captured logs:")
	for i, log := range tl.GetLogs() {
		t.Logf("[%d] %s", i, log)
	}
}

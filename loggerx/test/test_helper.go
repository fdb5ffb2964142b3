package loggerxtest

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/mab1k/tests-upload-zip-files/loggerx"
)

func NewTestLogger(t testing.TB) *loggerx.Logger {
	t.Helper()
	return &loggerx.Logger{Logger: slog.New(slog.DiscardHandler)}
}

func NewTestLoggerWithJSONBuffer(t testing.TB) (*loggerx.Logger, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	return loggerx.New(loggerx.WithFormat(loggerx.FormatJSON), loggerx.WithLevel("debug"), loggerx.WithOutput(buf)), buf
}

func NewTestLoggerWithTextBuffer(t testing.TB) (*loggerx.Logger, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	return loggerx.New(loggerx.WithLevel("debug"), loggerx.WithOutput(buf)), buf
}

package loggerx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mab1k/tests-upload-zip-files/slogx"
	slogctx "github.com/veqryn/slog-context"
	"go.opentelemetry.io/otel/attribute"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Logger struct {
	*slog.Logger
}

type options struct {
	level  slog.Level
	format string
	out    io.Writer
}

type Option func(*options)

// WithLevel sets the minimum level. Unknown names fall back to info.
func WithLevel(level string) Option {
	return func(o *options) {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err == nil {
			o.level = l
		}
	}
}

// WithFormat selects the text or json handler.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = strings.ToLower(strings.TrimSpace(format))
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// New builds a Logger whose handler also emits the attributes stored in the
// context with slogctx.Append and slogctx.Prepend.
func New(opts ...Option) *Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatText,
		out:    os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	ho := &slog.HandlerOptions{Level: o.level}
	var h slog.Handler
	if o.format == FormatJSON {
		h = slog.NewJSONHandler(o.out, ho)
	} else {
		h = slog.NewTextHandler(o.out, ho)
	}

	return &Logger{slog.New(slogctx.NewHandler(h, nil))}
}

// WithContextFields returns a context carrying kvs; every record logged with
// that context gets them.
func WithContextFields(ctx context.Context, kvs ...attribute.KeyValue) context.Context {
	args := make([]any, 0, len(kvs))
	for _, a := range slogx.NewLogFields(kvs...) {
		args = append(args, a)
	}
	return slogctx.Append(ctx, args...)
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.Logger.With(slogx.ErrorAttr(err))}
}

func (l *Logger) Error(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelError, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelWarn, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) Info(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelInfo, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) Debug(ctx context.Context, msg string, kvs ...attribute.KeyValue) {
	l.Logger.LogAttrs(ctx, slog.LevelDebug, msg, slogx.NewLogFields(kvs...)...)
}

func (l *Logger) WithFields(kvs ...attribute.KeyValue) *Logger {
	lfs := slogx.NewLogFields(kvs...)
	args := make([]any, 0, len(lfs))
	for _, a := range lfs {
		args = append(args, a)
	}
	return &Logger{l.Logger.With(args...)}
}

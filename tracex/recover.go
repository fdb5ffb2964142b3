// Package tracex turns panics into internal errors that carry the panicking
// stack.
package tracex

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/mab1k/tests-upload-zip-files/errorx"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
)

const maxStackBytes = 4096

// Recover stores a recovered panic in *errp as an internal error and logs
// it with its stack trace. It must be deferred directly:
//
//	defer tracex.Recover(ctx, l, &err, "archive panicked")
func Recover(ctx context.Context, l *loggerx.Logger, errp *error, msg string) {
	r := recover()
	if r == nil {
		return
	}
	if errp != nil {
		*errp = errorx.InternalErrorf("%s: %v", msg, r)
	}
	if l != nil {
		l.Error(ctx, msg, StackTraceAttrs(r)...)
	}
}

// StackTraceAttrs describes a recovered value and the current stack with the
// exception semantic conventions.
func StackTraceAttrs(recovered any) []attribute.KeyValue {
	if recovered == nil {
		return nil
	}
	out := []attribute.KeyValue{semconv.ExceptionStacktrace(stackTrace(3))}
	switch v := recovered.(type) {
	case string:
		out = append(out, semconv.ExceptionMessage(v))
	case error:
		out = append(out, semconv.ExceptionMessage(v.Error()))
	default:
		out = append(out, semconv.ExceptionMessage(fmt.Sprintf("%v", v)))
	}
	return out
}

func stackTrace(skip int) string {
	pc := make([]uintptr, 32)
	n := runtime.Callers(skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more || b.Len() > maxStackBytes {
			break
		}
	}
	return b.String()
}

// Package otelx sets up the OpenTelemetry tracer used to wrap harness runs in
// spans.
package otelx

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mab1k/tests-upload-zip-files/errorx"
	"github.com/mab1k/tests-upload-zip-files/loggerx"
)

const DefaultTracerName = "github.com/mab1k/tests-upload-zip-files"

type Tracer struct {
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

// New builds the tracer selected by c.Provider. An empty provider yields a
// no-op tracer.
func New(ctx context.Context, name string, l *loggerx.Logger, c *TracerConfig) (*Tracer, error) {
	if name == "" {
		name = DefaultTracerName
	}

	switch c.Provider {
	case ProviderNone:
		l.Debug(ctx, "no tracer configured, spans are dropped")
		return NewNoop(name), nil
	case ProviderStdout:
		tp, err := newStdoutProvider(c)
		if err != nil {
			return nil, err
		}
		l.Info(ctx, "stdout tracer configured")
		return &Tracer{tracer: tp.Tracer(name), shutdown: tp.Shutdown}, nil
	default:
		return nil, errorx.SetupErrorf("unknown tracer provider %q, expected one of %q, %q", c.Provider, ProviderNone, ProviderStdout)
	}
}

func NewNoop(name string) *Tracer {
	return &Tracer{
		tracer:   noop.NewTracerProvider().Tracer(name),
		shutdown: func(context.Context) error { return nil },
	}
}

func newStdoutProvider(c *TracerConfig) (*sdktrace.TracerProvider, error) {
	out := c.Stdout.Output
	if out == nil {
		out = os.Stdout
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(out)}
	if c.Stdout.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}

	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, errorx.WrapSetup(err, "could not create stdout trace exporter")
	}

	ratio := c.SamplingRatio
	if ratio <= 0 {
		ratio = 1
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(c.ServiceName),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	), nil
}

// Tracer returns the underlying OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

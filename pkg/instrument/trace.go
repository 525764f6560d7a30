package instrument

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/relit-dev/relit/pkg/bind"
)

// Default tracer name for relit applications.
const defaultTracerName = "relit"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "relit").
	TracerName string

	// IncludeValueType records the Go type of the applied value as a
	// span attribute. Enabled by default.
	IncludeValueType bool

	// Filter determines which updates to trace. Return true to trace,
	// false to skip. If nil, all updates are traced.
	Filter func(hole int, value any) bool

	// Context is the parent context for update spans.
	// Default: context.Background().
	Context context.Context

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) { c.TracerName = name }
}

// WithIncludeValueType enables/disables the value type attribute.
func WithIncludeValueType(include bool) OTelOption {
	return func(c *OTelConfig) { c.IncludeValueType = include }
}

// WithUpdateFilter sets a filter function for updates.
func WithUpdateFilter(filter func(hole int, value any) bool) OTelOption {
	return func(c *OTelConfig) { c.Filter = filter }
}

// WithContext sets the parent context for update spans.
func WithContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) { c.Context = ctx }
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:       defaultTracerName,
		IncludeValueType: true,
		Context:          context.Background(),
	}
}

// OpenTelemetry creates middleware that traces every hole update.
//
// Each update becomes a span named "relit.update" carrying the hole
// index and, unless disabled, the applied value's Go type. A panicking
// update is recorded on the span before the panic resumes.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure
// it in your main() before rendering:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return func(hole int, next bind.Update) bind.Update {
		return func(v any) {
			if config.Filter != nil && !config.Filter(hole, v) {
				next(v)
				return
			}

			attrs := []attribute.KeyValue{
				attribute.Int("relit.hole", hole),
			}
			if config.IncludeValueType {
				attrs = append(attrs, attribute.String("relit.value_type", fmt.Sprintf("%T", v)))
			}

			_, span := config.tracer.Start(
				config.Context,
				"relit.update",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
				trace.WithTimestamp(time.Now()),
			)
			defer span.End()
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					panic(r)
				}
				span.SetStatus(codes.Ok, "")
			}()

			next(v)
		}
	}
}

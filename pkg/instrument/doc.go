// Package instrument wraps bind update callbacks with observability.
//
// A Middleware decorates one Update; Wrap applies a chain to a whole
// callback set. Prometheus and OpenTelemetry are provided, configured
// with functional options and backed by the global registerer and
// tracer provider respectively.
package instrument

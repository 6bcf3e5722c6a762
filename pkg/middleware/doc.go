// Package middleware provides net/http middleware for metrics, tracing
// and request logging.
//
// # Prometheus Metrics
//
// Metrics records request counts and latencies labelled by the chi route
// pattern, so /_recipes/resource/{id}/{name} is one series regardless of
// the ID:
//   - recipes_http_requests_total{route,method,status}
//   - recipes_http_request_duration_seconds{route,method}
//   - recipes_uploads_total{kind} (recorded with RecordUpload)
//
//	r := chi.NewRouter()
//	r.Use(middleware.Metrics())
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// Tracing starts a server span per request using the global tracer
// provider. Configure it in main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// Handlers reach the span through the request context:
//
//	trace.SpanFromContext(r.Context()).SetAttributes(...)
//
// # Logging
//
// Logger writes one structured line per request with slog.
package middleware

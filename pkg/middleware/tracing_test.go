package middleware

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTracedRouter(t *testing.T, opts ...TracingOption) (*chi.Mux, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	r := chi.NewRouter()
	r.Use(Tracing(append([]TracingOption{WithTracerProvider(tp)}, opts...)...))
	r.Get("/camera", func(w http.ResponseWriter, r *http.Request) {
		if !trace.SpanFromContext(r.Context()).SpanContext().IsValid() {
			t.Error("handler context carries no span")
		}
		w.Write([]byte("ok"))
	})
	r.Post("/camera/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})
	return r, sr
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanPerRequest(t *testing.T) {
	r, sr := newTracedRouter(t)

	serve(r, http.MethodGet, "/camera")

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "GET /camera" {
		t.Errorf("span name = %q, want %q", span.Name(), "GET /camera")
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status().Code)
	}
	if v, ok := attrValue(span.Attributes(), "http.route"); !ok || v.AsString() != "/camera" {
		t.Errorf("http.route = %v, want /camera", v.AsString())
	}
	if v, ok := attrValue(span.Attributes(), "http.status_code"); !ok || v.AsInt64() != 200 {
		t.Errorf("http.status_code = %v, want 200", v.AsInt64())
	}
}

func TestTracing_StatusCodes(t *testing.T) {
	tests := []struct {
		method, path string
		want         codes.Code
	}{
		{http.MethodPost, "/camera/upload", codes.Ok}, // 4xx is not a server error
		{http.MethodGet, "/fail", codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, sr := newTracedRouter(t)
			serve(r, tt.method, tt.path)

			spans := sr.Ended()
			if len(spans) != 1 {
				t.Fatalf("got %d spans, want 1", len(spans))
			}
			if got := spans[0].Status().Code; got != tt.want {
				t.Errorf("status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracing_Filter(t *testing.T) {
	r, sr := newTracedRouter(t, WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))

	serve(r, http.MethodGet, "/healthz")
	if n := len(sr.Ended()); n != 0 {
		t.Errorf("filtered request produced %d spans", n)
	}
}

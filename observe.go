package fetchkit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/fetchkit"

// Instrumentation is wired to the globally registered providers, the same
// no-op-by-default contract the rest of the otel API follows. Applications
// that install SDK providers get spans and metrics without extra wiring.
var (
	obsOnce         sync.Once
	tracer          trace.Tracer
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
)

func instruments() {
	obsOnce.Do(func() {
		tracer = otel.Tracer(instrumentationName)
		meter := otel.Meter(instrumentationName)
		requestCount, _ = meter.Int64Counter("fetchkit.client.requests",
			metric.WithDescription("Number of requests dispatched by the client"))
		requestDuration, _ = meter.Float64Histogram("fetchkit.client.duration",
			metric.WithDescription("Request round-trip duration"),
			metric.WithUnit("s"))
	})
}

// startSpan opens a client span for one send.
func startSpan(ctx context.Context, method, url string) (context.Context, trace.Span) {
	instruments()
	return tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", url),
		))
}

// injectHeaders propagates the trace context into the outgoing headers.
func injectHeaders(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// finishSpan closes the span with the observed outcome.
func finishSpan(span trace.Span, statusCode int, err error) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// recordRequest records the counter and duration for one send.
func recordRequest(ctx context.Context, method string, statusCode int, elapsed time.Duration, err error) {
	instruments()
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", method),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", statusCode))
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error.type", Normalize(err).Kind.String()))
	}
	set := metric.WithAttributeSet(attribute.NewSet(attrs...))
	requestCount.Add(ctx, 1, set)
	requestDuration.Record(ctx, elapsed.Seconds(), set)
}

package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request, continuing any trace the
// caller propagated in the request headers.
func TracingMiddleware(instrumentation string) gin.HandlerFunc {
	tracer := otel.Tracer(instrumentation)

	return func(c *gin.Context) {
		req := c.Request
		parent := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

		route := c.FullPath()
		attrs := []attribute.KeyValue{
			semconv.HTTPMethod(req.Method),
			attribute.String("request.id", RequestIDFromContext(c)),
		}
		if route != "" {
			attrs = append(attrs, semconv.HTTPRoute(route))
		} else {
			route = req.URL.Path
		}

		ctx, span := tracer.Start(parent, req.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()
		c.Request = req.WithContext(ctx)

		c.Next()

		finishServerSpan(span, c)
	}
}

func finishServerSpan(span trace.Span, c *gin.Context) {
	status := c.Writer.Status()
	span.SetAttributes(semconv.HTTPStatusCode(status))
	if last := c.Errors.Last(); last != nil {
		span.RecordError(last.Err)
	}
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

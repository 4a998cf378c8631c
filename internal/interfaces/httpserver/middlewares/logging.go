package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// quietPaths are probe and scrape endpoints logged at debug instead of info.
var quietPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// LoggingMiddleware attaches a request-scoped logger to the request context
// (readable with zerolog.Ctx) and writes one access line per request.
func LoggingMiddleware(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()

		scoped := base.With().Str("request_id", RequestIDFromContext(c))
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			scoped = scoped.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
		}
		reqLog := scoped.Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		event := accessEvent(&reqLog, c.Request.URL.Path, status).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(began)).
			Str("client_ip", c.ClientIP())
		if query := c.Request.URL.RawQuery; query != "" {
			event = event.Str("query", query)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			event = event.Str("error", errs.String())
		}
		event.Msg("request completed")
	}
}

func accessEvent(log *zerolog.Logger, path string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	}
	if _, ok := quietPaths[path]; ok {
		return log.Debug()
	}
	return log.Info()
}

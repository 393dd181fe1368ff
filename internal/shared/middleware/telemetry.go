package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry wraps the router with otelhttp so request size, duration and
// in-flight counts are exported under the given operation name.
func Telemetry(operation string) func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(operation)
}

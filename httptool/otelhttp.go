package httptool

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var otelHTTPPool = newClientPool(func(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(base)
})

// otelHTTPExtension serves the same request path as "nethttp" behind an
// instrumented transport, producing one client span per request.
func otelHTTPExtension(ctx context.Context, req Request) (Response, error) {
	return executeRequest(ctx, req, otelHTTPPool)
}

package ezhttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	HeaderAccept             = "Accept"
	HeaderContentType        = "Content-Type"
	HeaderUserAgent          = "User-Agent"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

const (
	ContentTypeCSS  = "text/css"
	ContentTypeHTML = "text/html"
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

var defaultClient = &http.Client{
	Transport: otelhttp.NewTransport(
		http.DefaultTransport,
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	),
	Timeout: 10 * time.Second,
}

// Do sends a request to the configured server. An empty accept leaves the Accept header unset.
func Do(method string, path string, accept string, body io.Reader) (*http.Response, error) {
	server := viper.GetString("server")
	rq, err := http.NewRequest(method, server+path, body)
	if err != nil {
		return nil, err
	}
	rq.Header.Set(HeaderUserAgent, "statusdemo-cli")
	if accept != "" {
		rq.Header.Set(HeaderAccept, accept)
	}
	return defaultClient.Do(rq)
}

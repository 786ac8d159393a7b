// Package httpclient provides http.RoundTripper middleware for outbound
// requests: request-ID stamping and request logging.
package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps an http.RoundTripper with additional behavior.
type Middleware func(http.RoundTripper) http.RoundTripper

// Wrap applies middlewares to base so that the first middleware is the
// outermost. A nil base falls back to http.DefaultTransport.
func Wrap(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// RequestID returns a middleware that stamps every outbound request with a
// unique X-Request-ID header. A header already set by the caller is kept.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("X-Request-ID") != "" {
				return next.RoundTrip(r)
			}
			// RoundTrippers must not mutate the caller's request.
			r2 := r.Clone(r.Context())
			r2.Header.Set("X-Request-ID", uuid.New().String())
			return next.RoundTrip(r2)
		})
	}
}

// LogRequests returns a middleware that logs each outbound request using the
// zctx logger from the request context: method, URL, status, and duration.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			lg := zctx.From(r.Context())
			start := time.Now()

			resp, err := next.RoundTrip(r)
			if err != nil {
				lg.Warn("Outbound request failed",
					zap.String("method", r.Method),
					zap.String("url", r.URL.String()),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				return nil, err
			}

			lg.Debug("Outbound request",
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", time.Since(start)),
			)
			return resp, nil
		})
	}
}

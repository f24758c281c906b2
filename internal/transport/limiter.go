package transport

import (
	"net/http"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/logger"

	"golang.org/x/time/rate"
)

// LimitTransport blocks each outgoing request until the limiter grants a
// token or the request context is done.
func LimitTransport(limiter *rate.Limiter, next http.RoundTripper) http.RoundTripper {
	return logger.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if err := limiter.Wait(r.Context()); err != nil {
			return nil, apperr.Network(err)
		}
		return next.RoundTrip(r)
	})
}

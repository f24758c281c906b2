package logger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// RequestIDTransport stamps every outgoing request with a request id, reusing
// the one already carried by the context.
func RequestIDTransport(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		reqID := RequestIDFrom(r.Context())
		if reqID == "" {
			reqID = r.Header.Get(RequestIDHeader)
		}
		if reqID == "" {
			reqID = uuid.New().String()
		}

		r = r.Clone(WithRequestID(r.Context(), reqID))
		r.Header.Set(RequestIDHeader, reqID)

		return next.RoundTrip(r)
	})
}

func LoggingTransport(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		log := FromCtx(r.Context())

		resp, err := next.RoundTrip(r)
		if err != nil {
			log.Warn("outgoing request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration_ms", time.Since(start)),
				zap.Error(err),
			)
			return nil, err
		}

		log.Info("outgoing request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration_ms", time.Since(start)),
		)
		return resp, nil
	})
}

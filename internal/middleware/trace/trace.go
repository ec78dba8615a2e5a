// Package trace tags every editor request with a short opaque ID so
// one HTMX interaction can be followed across the access log, and keeps
// a rough count of how many requests overran the slow threshold.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

type ctxKey struct{}

// slowThreshold separates cheap HTMX swaps from the heavyweight
// operations: spreadsheet imports, vision extractions and PDF renders.
const slowThreshold = 2 * time.Second

type Middleware struct {
	metrics Metrics
}

// Metrics counts requests since startup.
type Metrics struct {
	TotalRequests int64
	SlowRequests  int64
}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Middleware assigns the request ID, echoes it in the X-Request-ID
// response header and updates the counters. Logging is left to the
// access log so each request is reported exactly once.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GenerateRequestID()
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		atomic.AddInt64(&m.metrics.TotalRequests, 1)
		if time.Since(start) > slowThreshold {
			atomic.AddInt64(&m.metrics.SlowRequests, 1)
		}
	})
}

// GenerateRequestID returns a short opaque ID for one request.
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns a snapshot of the counters.
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: atomic.LoadInt64(&m.metrics.TotalRequests),
		SlowRequests:  atomic.LoadInt64(&m.metrics.SlowRequests),
	}
}

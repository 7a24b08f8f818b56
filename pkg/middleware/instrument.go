package middleware

import (
	"net/http"
	"time"

	"github.com/JaimeStill/rankwise/pkg/metrics"
)

// Instrument records request counts and latency on m.
func Instrument(m *metrics.Metrics) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			m.Request(r.Method, rec.status, time.Since(start))
		})
	}
}

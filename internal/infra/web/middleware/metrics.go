package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DioGolang/GoPOS/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const unmatchedRoute = "unmatched"

// MetricsWrapper observes request durations labelled by route pattern, so
// that /orders/{orderID} is one series whatever the id. Requests to the
// skipped paths (scrapes, probes) are not observed.
func MetricsWrapper(m metrics.Metrics, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			began := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			m.ObserveHTTPRequestDuration(r.Method, routeLabel(r), statusLabel(ww.Status()), time.Since(began).Seconds())
		})
	}
}

func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return unmatchedRoute
	}
	return rctx.RoutePattern()
}

// a handler that never wrote a header answered 200
func statusLabel(code int) string {
	if code == 0 {
		code = http.StatusOK
	}
	return strconv.Itoa(code)
}

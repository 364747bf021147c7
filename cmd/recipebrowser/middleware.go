package main

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
)

// metricsPrefix namespaces the request metrics recorded by go-http-metrics.
const metricsPrefix = "recipebrowser"

// registered once; WithMiddleware may wrap several handlers (tests do)
var httpMetrics = middleware.New(middleware.Config{
	Recorder: metrics.NewRecorder(metrics.Config{Prefix: metricsPrefix}),
})

var panicRecoveries = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recipebrowser_panic_recoveries_total",
		Help: "Total number of panics recovered in HTTP handlers",
	},
)

type contextKey string

const requestIDKey contextKey = "request_id"

const requestIDHeader = "X-Request-Id"

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type requestID struct {
	http.Handler
}

func (h *requestID) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	w.Header().Set(requestIDHeader, id)
	h.Handler.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
}

type logger struct {
	http.Handler
}

func (l *logger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	l.Handler.ServeHTTP(w, r)
	if r.URL.Path == "/ready" || r.URL.Path == "/metrics" {
		return
	}
	// status codes are in the request metrics
	slog.InfoContext(r.Context(), "request",
		"request_id", requestIDFrom(r.Context()),
		"method", r.Method,
		"url", r.URL.Path,
		"query", r.URL.Query(),
		"duration", time.Since(start))
}

type recoverer struct {
	http.Handler
}

func (r *recoverer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			panicRecoveries.Inc()
			slog.ErrorContext(req.Context(), "panic recovered", "error", err, "request_id", requestIDFrom(req.Context()), "stack", string(debug.Stack()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()
	r.Handler.ServeHTTP(w, req)
}

func WithMiddleware(h http.Handler) http.Handler {
	h = middlewarestd.Handler("", httpMetrics, h)
	return &requestID{
		&logger{
			&recoverer{
				h,
			},
		},
	}
}

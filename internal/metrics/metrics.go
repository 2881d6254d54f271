// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoshare_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	RegisterSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_register_success_total",
		Help: "Total successful registrations",
	})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_posts_created_total",
		Help: "Total posts published",
	})

	CommentsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_comments_added_total",
		Help: "Total comments added",
	})

	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_likes_toggled_total",
		Help: "Total like toggles by resulting state",
	}, []string{"state"})

	LikeCountCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_like_count_cache_total",
		Help: "Like count lookups by cache outcome",
	}, []string{"outcome"})

	MessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_messages_posted_total",
		Help: "Total direct messages sent",
	})

	CatFactFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_catfact_failures_total",
		Help: "Cat fact fetches that failed",
	})
)

type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler records request timing labelled by the matched route
// template, so /profile/alice and /profile/bob share one series.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		RequestDuration.
			WithLabelValues(r.Method, routeLabel(r), fmt.Sprintf("%d", rw.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// Package metrics holds the Prometheus collectors the API exports at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boipoka"

// Content kinds used as the "kind" label.
const (
	KindBlog            = "blog"
	KindCollection      = "collection"
	KindReadingListItem = "reading_list_item"
	KindChat            = "chat"
	KindProfile         = "profile"
)

var (
	contentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_created_total",
		Help:      "Number of content items created, by kind",
	}, []string{"kind"})

	contentDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_deleted_total",
		Help:      "Number of content items deleted, by kind",
	}, []string{"kind"})

	accessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Requests refused by the visibility and ownership policy, by kind and action",
	}, []string{"kind", "action"})

	chatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Chat messages appended, by role",
	}, []string{"role"})

	assistantCalls = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assistant_call_seconds",
		Help:      "Latency of assistant completion calls, by outcome",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"outcome"})

	assistantTokens = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assistant_tokens_total",
		Help:      "Tokens consumed by assistant completions",
	})

	httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method and status code",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

// ContentCreated counts a newly created item of kind.
func ContentCreated(kind string) {
	contentCreated.WithLabelValues(kind).Inc()
}

// ContentDeleted counts a deleted item of kind.
func ContentDeleted(kind string) {
	contentDeleted.WithLabelValues(kind).Inc()
}

// AccessDenied counts a policy refusal.
func AccessDenied(kind, action string) {
	accessDenied.WithLabelValues(kind, action).Inc()
}

// ChatMessage counts one appended chat message.
func ChatMessage(role string) {
	chatMessages.WithLabelValues(role).Inc()
}

// AssistantCall records one completion call. tokens is ignored when err is set.
func AssistantCall(started time.Time, tokens int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	} else if tokens > 0 {
		assistantTokens.Add(float64(tokens))
	}
	assistantCalls.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency by method and status code.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

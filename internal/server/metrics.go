package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/example/go-retok/internal/tokenizer"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "retok"

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	segmentsTotal   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		requestsTotal: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "status"},
		)),
		requestDuration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		)),
		segmentsTotal: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "segments_total",
				Help:      "Segments produced by tokenization, by kind",
			},
			[]string{"kind"},
		)),
	}
}

// register adds c to reg, reusing an identical collector that is already
// registered so one registry can back several handlers.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) observeSegments(tok *tokenizer.Tokenizer) {
	if m == nil {
		return
	}
	for _, k := range tokenizer.Kinds {
		if n := tok.Count(k); n > 0 {
			m.segmentsTotal.WithLabelValues(k.String()).Add(float64(n))
		}
	}
}

// knownPaths bounds the path label to routes the handler serves.
var knownPaths = map[string]bool{
	"/health":     true,
	"/tokenize":   true,
	"/untokenize": true,
	"/metrics":    true,
}

func (m *metrics) middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if !knownPaths[path] {
			path = "other"
		}
		m.requestsTotal.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

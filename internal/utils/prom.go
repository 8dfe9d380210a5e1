package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adreport_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "code"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adreport_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// PipelineRows counts normalized rows by outcome (kept, dropped_date).
	PipelineRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adreport_pipeline_rows_total",
		Help: "Rows seen by the ingest pipeline by outcome.",
	}, []string{"outcome"})

	// PipelineCells counts metric cells defaulted to zero.
	PipelineCells = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adreport_pipeline_coerced_cells_total",
		Help: "Metric cells that failed numeric parsing and were set to 0.",
	})

	// Uploads counts load attempts by result (ok, load_error, schema_error, mapping_error).
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adreport_uploads_total",
		Help: "Report loads by result.",
	}, []string{"result"})
)

// Instrument records request count and latency per chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		route := routeLabel(r)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.code)).Inc()
		httpLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routeLabel keeps label cardinality bounded: paths no route matched share
// one series.
func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return "unmatched"
}

// statusWriter remembers the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	code int
	n    int64
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.n += int64(n)
	return n, err
}

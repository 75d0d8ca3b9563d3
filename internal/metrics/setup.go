package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing application metrics, plus the service's own instruments.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// The service keeps its own isolated registry to prevent collisions.
	Registry *prometheus.Registry

	ingestRequests *prometheus.CounterVec
	ingestFiles    prometheus.Counter
	indexTasks     *prometheus.CounterVec
	indexDuration  *prometheus.HistogramVec
	deleteDiverged prometheus.Counter
	searchRequests *prometheus.CounterVec
}

// NewMetrics initializes the registry, registers default system collectors and
// the application instruments, and prepares an HTTP server exposing /metrics.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m := &Metrics{
		Registry: registry,
	}

	m.ingestRequests = createCounterVec("ingest_requests_total",
		"Total ingest requests by mode and outcome", []string{"mode", "status"})
	m.ingestFiles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingest_files_total",
		Help: "Total files accepted by the ingestion pipeline",
	})
	m.indexTasks = createCounterVec("index_tasks_total",
		"Asynchronous index tasks by outcome", []string{"status"})
	m.indexDuration = createHistogramVec("index_request_duration_seconds",
		"Duration of calls to the external indexing service", []string{"op"}, prometheus.DefBuckets)
	m.deleteDiverged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delete_divergence_total",
		Help: "Deletions where the index entry was removed but the metadata update failed",
	})
	m.searchRequests = createCounterVec("search_requests_total",
		"Search requests by outcome", []string{"status"})

	wrappedRegistry.MustRegister(
		m.ingestRequests,
		m.ingestFiles,
		m.indexTasks,
		m.indexDuration,
		m.deleteDiverged,
		m.searchRequests,
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	m.Server = &http.Server{
		Addr:    address,
		Handler: handler,
	}

	return m
}

// IngestRequest records one ingest request with its mode ("batch", "append",
// "sync") and outcome ("ok", "failed").
func (m *Metrics) IngestRequest(mode, status string) {
	m.ingestRequests.WithLabelValues(mode, status).Inc()
}

// IngestFiles records files accepted by the persist phase.
func (m *Metrics) IngestFiles(n int) {
	m.ingestFiles.Add(float64(n))
}

// IndexTask records one asynchronous index task outcome ("ok", "failed").
func (m *Metrics) IndexTask(status string) {
	m.indexTasks.WithLabelValues(status).Inc()
}

// IndexRequest records the duration of one call to the indexing service.
func (m *Metrics) IndexRequest(op string, d time.Duration) {
	m.indexDuration.WithLabelValues(op).Observe(d.Seconds())
}

// DeleteDivergence records a deletion that left the two stores diverged.
func (m *Metrics) DeleteDivergence() {
	m.deleteDiverged.Inc()
}

// SearchRequest records one search request outcome ("ok", "failed").
func (m *Metrics) SearchRequest(status string) {
	m.searchRequests.WithLabelValues(status).Inc()
}

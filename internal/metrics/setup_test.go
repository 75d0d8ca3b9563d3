package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherNames(t *testing.T, registry *prometheus.Registry) map[string]bool {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestNewMetricsRegistersInstruments(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "test"})

	m.IngestRequest("batch", "ok")
	m.IngestFiles(2)
	m.IndexTask("failed")
	m.IndexRequest("add-batch", 120*time.Millisecond)
	m.DeleteDivergence()
	m.SearchRequest("ok")

	names := gatherNames(t, m.Registry)
	for _, want := range []string{
		"ingest_requests_total",
		"ingest_files_total",
		"index_tasks_total",
		"index_request_duration_seconds",
		"delete_divergence_total",
		"search_requests_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestNewMetricsDefaultAddress(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
}

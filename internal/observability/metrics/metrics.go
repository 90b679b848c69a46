package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	warehouseQueries   *prometheus.CounterVec
	warehouseFallbacks *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	exportsGenerated   *prometheus.CounterVec
}

// New registers the domain instruments on the default registerer.
func New() *Metrics {
	m := &Metrics{
		warehouseQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resellerd_warehouse_queries_total",
			Help: "Warehouse view loads by view and result.",
		}, []string{"view", "result"}),
		warehouseFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resellerd_sample_fallbacks_total",
			Help: "Responses served from sample data after a load failure.",
		}, []string{"view", "reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resellerd_query_cache_lookups_total",
			Help: "Query cache lookups by view and outcome.",
		}, []string{"view", "outcome"}),
		exportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resellerd_csv_exports_total",
			Help: "CSV exports generated by table.",
		}, []string{"table"}),
	}

	prometheus.MustRegister(
		m.warehouseQueries,
		m.warehouseFallbacks,
		m.cacheLookups,
		m.exportsGenerated,
	)
	return m
}

// RecordWarehouseQuery counts a warehouse load attempt.
func (m *Metrics) RecordWarehouseQuery(view, result string) {
	if m == nil {
		return
	}
	m.warehouseQueries.WithLabelValues(normalize(view), normalize(result)).Inc()
}

// RecordSampleFallback counts a response served from sample data.
func (m *Metrics) RecordSampleFallback(view, reason string) {
	if m == nil {
		return
	}
	m.warehouseFallbacks.WithLabelValues(normalize(view), normalize(reason)).Inc()
}

// RecordCacheLookup counts a query cache hit or miss.
func (m *Metrics) RecordCacheLookup(view string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(normalize(view), outcome).Inc()
}

// RecordExport counts a generated CSV export.
func (m *Metrics) RecordExport(table string) {
	if m == nil {
		return
	}
	m.exportsGenerated.WithLabelValues(normalize(table)).Inc()
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}

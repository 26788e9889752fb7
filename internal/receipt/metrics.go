package receipt

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zombor/expense-scanner/internal/scanning"
)

const (
	sourceImage = "image"
	sourceOCR   = "ocr"
)

// Metrics records scan outcomes for Prometheus
type Metrics struct {
	registry      *prometheus.Registry
	scans         *prometheus.CounterVec
	scanDuration  *prometheus.HistogramVec
	itemsPerScan  prometheus.Histogram
	missingFields *prometheus.CounterVec
}

// NewMetrics registers the scan metrics on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_scanner_scans_total",
			Help: "Total number of receipts scanned",
		}, []string{"source", "outcome"}),
		scanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expense_scanner_scan_duration_seconds",
			Help:    "Time taken to recognize and parse a receipt",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		itemsPerScan: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "expense_scanner_items_per_scan",
			Help:    "Number of line items extracted per receipt",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		missingFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_scanner_missing_fields_total",
			Help: "Number of scans where a field could not be extracted",
		}, []string{"field"}),
	}
	m.registry.MustRegister(m.scans, m.scanDuration, m.itemsPerScan, m.missingFields)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeFailure(source string, elapsed time.Duration) {
	m.scans.WithLabelValues(source, "failure").Inc()
	m.scanDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) observeResult(source string, elapsed time.Duration, result *scanning.ScanResult) {
	m.scans.WithLabelValues(source, "success").Inc()
	m.scanDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.itemsPerScan.Observe(float64(len(result.Items)))

	if result.TotalAmount == nil {
		m.missingFields.WithLabelValues("total").Inc()
	}
	if result.Merchant == nil {
		m.missingFields.WithLabelValues("merchant").Inc()
	}
	if result.Date == nil {
		m.missingFields.WithLabelValues("date").Inc()
	}
	if result.Category == nil {
		m.missingFields.WithLabelValues("category").Inc()
	}
}

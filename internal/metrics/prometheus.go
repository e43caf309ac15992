// Package metrics provides Prometheus metrics for catalog loading.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sheet fetch metrics
	SheetFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hcl_sheet_fetches_total",
			Help: "Total number of sheet fetch attempts",
		},
		[]string{"sheet", "status"},
	)

	SheetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hcl_sheet_fetch_duration_seconds",
			Help:    "Time taken to fetch one sheet",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"sheet"},
	)

	SheetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hcl_sheet_rows",
			Help: "Rows returned by the last fetch of each sheet",
		},
		[]string{"sheet"},
	)

	// Refresh metrics
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hcl_catalog_refreshes_total",
			Help: "Total number of catalog refreshes",
		},
		[]string{"status"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hcl_catalog_refresh_duration_seconds",
			Help:    "Time taken for a full fetch and aggregation cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Catalog size
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hcl_catalog_products",
			Help: "Products in the published catalog",
		},
	)

	CatalogOSLabels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hcl_catalog_os_labels",
			Help: "Distinct OS labels in the published catalog",
		},
	)
)

// Recorder records load cycle metrics. The zero value is ready to use.
type Recorder struct{}

// NewRecorder creates a new recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SheetFetched records the outcome of one sheet fetch.
func (r *Recorder) SheetFetched(sheet string, rows int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SheetFetchesTotal.WithLabelValues(sheet, status).Inc()
	SheetFetchDuration.WithLabelValues(sheet).Observe(d.Seconds())
	SheetRows.WithLabelValues(sheet).Set(float64(rows))
}

// Refreshed records one refresh cycle. Catalog gauges only move on success.
func (r *Recorder) Refreshed(products, osLabels int, d time.Duration, err error) {
	RefreshDuration.Observe(d.Seconds())
	if err != nil {
		RefreshesTotal.WithLabelValues("error").Inc()
		return
	}
	RefreshesTotal.WithLabelValues("success").Inc()
	CatalogProducts.Set(float64(products))
	CatalogOSLabels.Set(float64(osLabels))
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		hostExports,
		hostExportSeconds,
		hostImports,
	)
}

var (
	hostExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "host_exports",
			Help: "Host export operations by kind (region/still) and success.",
		},
		[]string{"kind", "success"},
	)

	hostExportSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "host_export_seconds",
			Help:    "Host render/export duration.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	hostImports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "host_imports",
			Help: "Media pool import+append operations by success.",
		},
		[]string{"success"},
	)
)

func ObserveExport(kind string, seconds float64, success bool) {
	hostExports.WithLabelValues(norm(kind), strconv.FormatBool(success)).Inc()
	hostExportSeconds.WithLabelValues(norm(kind)).Observe(seconds)
}

func ObserveImport(success bool) {
	hostImports.WithLabelValues(strconv.FormatBool(success)).Inc()
}

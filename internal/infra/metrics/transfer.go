package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		transferOps,
		transferBytes,
	)
}

var (
	transferOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_operations",
			Help: "Uploads/downloads against the temporary file host.",
		},
		[]string{"op", "success"},
	)

	transferBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_bytes",
			Help: "Bytes moved per transfer direction.",
		},
		[]string{"op"},
	)
)

func ObserveTransfer(op string, bytes int64, success bool) {
	transferOps.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
	if bytes > 0 {
		transferBytes.WithLabelValues(norm(op)).Add(float64(bytes))
	}
}

package rates

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var defaultMetrics = newMetrics()

type metrics struct {
	duration prometheus.Histogram
	failures *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		duration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "xr_resp_duration",
				Help:      "exchange rates server response duration",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5},
			}),
		failures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "xr_failures_total",
				Help:      "total quantity of failed exchange rates requests",
			}, []string{"base"}),
	}
}

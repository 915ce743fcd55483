package converterservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var defaultMetrics = newMetrics()

type metrics struct {
	sessions       prometheus.Gauge
	conversions    *prometheus.CounterVec
	historyRecords prometheus.Counter
	staleRates     prometheus.Counter
	fetches        *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		sessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "sessions",
				Help:      "quantity of open conversion sessions",
			}),
		conversions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "conversions_total",
				Help:      "total quantity of conversions by outcome",
			}, []string{"outcome"}),
		historyRecords: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "history_records_total",
				Help:      "total quantity of conversions saved to history",
			}),
		staleRates: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "stale_rates_total",
				Help:      "total quantity of rate responses dropped because the base changed",
			}),
		fetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "converter_service",
				Subsystem: "",
				Name:      "rate_fetches_total",
				Help:      "total quantity of rate fetches by result",
			}, []string{"result"}),
	}
}

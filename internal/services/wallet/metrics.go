package wallet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordTransaction(string, float64)             {}
func (n *NoopMetricsCollector) RecordRetry(string)                            {}

// PrometheusCollector exports MetricsCollector data to Prometheus.
type PrometheusCollector struct {
	operationDuration *prometheus.HistogramVec
	cacheLookups      *prometheus.CounterVec
	errors            *prometheus.CounterVec
	transfers         *prometheus.CounterVec
	transferVolume    *prometheus.CounterVec
	retries           *prometheus.CounterVec
}

// NewPrometheusCollector registers the collector's metrics on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vetopay_operation_duration_seconds",
				Help:    "Duration of wallet and transfer operations",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"operation"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vetopay_cache_lookups_total",
				Help: "Cache lookups by entity and result",
			},
			[]string{"entity", "result"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vetopay_errors_total",
				Help: "Failed operations by error type",
			},
			[]string{"operation", "type"},
		),
		transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vetopay_transfers_total",
				Help: "Transfers by outcome",
			},
			[]string{"status"},
		),
		transferVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vetopay_transfer_volume_total",
				Help: "Sum of transferred amounts by outcome",
			},
			[]string{"status"},
		),
		retries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vetopay_unit_of_work_retries_total",
				Help: "Units of work retried after a concurrency conflict",
			},
			[]string{"operation"},
		),
	}
}

func (p *PrometheusCollector) RecordOperationDuration(operation string, d time.Duration) {
	p.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (p *PrometheusCollector) RecordCacheHit(entity string) {
	p.cacheLookups.WithLabelValues(entity, "hit").Inc()
}

func (p *PrometheusCollector) RecordCacheMiss(entity string) {
	p.cacheLookups.WithLabelValues(entity, "miss").Inc()
}

func (p *PrometheusCollector) RecordError(operation, errType string) {
	p.errors.WithLabelValues(operation, errType).Inc()
}

func (p *PrometheusCollector) RecordTransaction(status string, amount float64) {
	p.transfers.WithLabelValues(status).Inc()
	p.transferVolume.WithLabelValues(status).Add(amount)
}

func (p *PrometheusCollector) RecordRetry(operation string) {
	p.retries.WithLabelValues(operation).Inc()
}

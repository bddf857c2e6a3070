package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ReportsBuilt counts fully assembled reports, split by cache outcome.
	ReportsBuilt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletscope_reports_built_total",
		Help: "Number of wallet reports served, by source (fresh or cache).",
	}, []string{"source"})

	// UpstreamFailures counts degraded external calls per provider. These are
	// soft failures: the report still renders with a zeroed module.
	UpstreamFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletscope_upstream_failures_total",
		Help: "Number of upstream calls that fell back to a default value.",
	}, []string{"provider"})

	// ReportDuration tracks end-to-end report assembly latency.
	ReportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "walletscope_report_build_seconds",
		Help:    "Time to assemble a full wallet report.",
		Buckets: prometheus.DefBuckets,
	})
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(ReportsBuilt, UpstreamFailures, ReportDuration)
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// EligibilityMetrics exposes counters/histograms for eligibility checks.
type EligibilityMetrics struct {
	checksTotal          *prometheus.CounterVec
	clearinghouseLatency *prometheus.HistogramVec
	billabilityTotal     *prometheus.CounterVec
}

func NewEligibilityMetrics(reg prometheus.Registerer) *EligibilityMetrics {
	m := &EligibilityMetrics{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "eligibility",
			Name:      "checks_total",
			Help:      "Total eligibility checks by payer code and outcome",
		}, []string{"payer_code", "outcome"}),
		clearinghouseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carebridge",
			Subsystem: "eligibility",
			Name:      "clearinghouse_latency_seconds",
			Help:      "Latency of the clearinghouse 270/271 exchange",
			Buckets:   prometheus.DefBuckets,
		}, []string{"payer_code"}),
		billabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carebridge",
			Subsystem: "eligibility",
			Name:      "billability_total",
			Help:      "Billability classifications by matching confidence",
		}, []string{"classification", "confidence"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.checksTotal, m.clearinghouseLatency, m.billabilityTotal)
	return m
}

func (m *EligibilityMetrics) ObserveCheck(payerCode, outcome string) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(payerCode, outcome).Inc()
}

func (m *EligibilityMetrics) ObserveClearinghouseLatency(payerCode string, seconds float64) {
	if m == nil {
		return
	}
	m.clearinghouseLatency.WithLabelValues(payerCode).Observe(seconds)
}

func (m *EligibilityMetrics) ObserveBillability(classification, confidence string) {
	if m == nil {
		return
	}
	m.billabilityTotal.WithLabelValues(classification, confidence).Inc()
}

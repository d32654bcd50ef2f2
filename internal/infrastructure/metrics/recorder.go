package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "loanrisk"

// Recorder implements port.MetricsRecorder with Prometheus collectors.
type Recorder struct {
	verifications   *prometheus.CounterVec
	advisoryCalls   *prometheus.CounterVec
	advisoryLatency *prometheus.HistogramVec
	decisions       *prometheus.CounterVec
	riskScore       prometheus.Histogram
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_verifications_total",
			Help:      "Document verifications by document type and resulting status.",
		}, []string{"document_type", "status"}),
		advisoryCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_calls_total",
			Help:      "Advisory service calls by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		advisoryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "advisory_call_duration_seconds",
			Help:      "Wall time of advisory calls including retries.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"purpose"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Loan decisions by status and risk level.",
		}, []string{"status", "risk_level"}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_risk_score",
			Help:      "Distribution of overall risk scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 9),
		}),
	}

	for _, c := range []prometheus.Collector{
		r.verifications, r.advisoryCalls, r.advisoryLatency, r.decisions, r.riskScore,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveVerification(documentType, status string) {
	if documentType == "" {
		documentType = "UNKNOWN"
	}
	r.verifications.WithLabelValues(documentType, status).Inc()
}

func (r *Recorder) ObserveAdvisory(purpose, outcome string, elapsed time.Duration) {
	r.advisoryCalls.WithLabelValues(purpose, outcome).Inc()
	r.advisoryLatency.WithLabelValues(purpose).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveDecision(status, riskLevel string, overallRiskScore float64) {
	r.decisions.WithLabelValues(status, riskLevel).Inc()
	r.riskScore.Observe(overallRiskScore)
}

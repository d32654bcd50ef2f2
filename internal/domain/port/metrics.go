package port

import "time"

// MetricsRecorder receives engine outcome counters. Implementations must be
// safe for concurrent use.
type MetricsRecorder interface {
	ObserveVerification(documentType, status string)
	ObserveAdvisory(purpose, outcome string, elapsed time.Duration)
	ObserveDecision(status, riskLevel string, overallRiskScore float64)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveVerification(string, string)            {}
func (NopMetrics) ObserveAdvisory(string, string, time.Duration) {}
func (NopMetrics) ObserveDecision(string, string, float64)       {}

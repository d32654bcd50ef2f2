package model

import "github.com/bibbank/loanrisk/internal/domain/valueobject"

// Anomaly types raised by the deterministic detector.
const (
	AnomalyEmptyContent             = "EMPTY_CONTENT"
	AnomalyGibberishText            = "GIBBERISH_TEXT"
	AnomalyDuplicateContent         = "DUPLICATE_CONTENT"
	AnomalyPlaceholderText          = "PLACEHOLDER_TEXT"
	AnomalyInconsistentFormatting   = "INCONSISTENT_FORMATTING"
	AnomalyFutureDate               = "FUTURE_DATE"
	AnomalyUnrealisticAmount        = "UNREALISTIC_AMOUNT"
	AnomalyInsufficientTransactions = "INSUFFICIENT_TRANSACTIONS"
	AnomalyNegativeBalance          = "NEGATIVE_BALANCE"
	AnomalyIncompleteSalarySlip     = "INCOMPLETE_SALARY_SLIP"
	AnomalySuspiciousRoundNumbers   = "SUSPICIOUS_ROUND_NUMBERS"
	AnomalyInvalidPANFormat         = "INVALID_PAN_FORMAT"
	AnomalyInvalidAadhaarFormat     = "INVALID_AADHAAR_FORMAT"
	AnomalyInvalidKYCFormat         = "INVALID_KYC_FORMAT"
	AnomalyMissingPropertyDetails   = "MISSING_PROPERTY_DETAILS"
	AnomalyNameMismatch             = "NAME_MISMATCH"
	AnomalySalaryMismatch           = "SALARY_MISMATCH"

	// AdvisoryAnomalyPrefix marks anomalies reported by the advisory service.
	AdvisoryAnomalyPrefix = "AI_DETECTED_"
)

// Anomaly is one red flag found in a document.
type Anomaly struct {
	Type        string               `json:"type"`
	Description string               `json:"description"`
	Severity    valueobject.Severity `json:"severity"`
}

// HasHighSeverity reports whether any anomaly is graded HIGH.
func HasHighSeverity(anomalies []Anomaly) bool {
	for _, a := range anomalies {
		if a.Severity.Equal(valueobject.SeverityHigh) {
			return true
		}
	}
	return false
}

// AnomalyScore normalises anomalies to [0,100]: 100 * sum(weight) / (3 * count).
func AnomalyScore(anomalies []Anomaly) float64 {
	if len(anomalies) == 0 {
		return 0
	}
	total := 0
	for _, a := range anomalies {
		total += a.Severity.Weight()
	}
	score := 100 * float64(total) / float64(3*len(anomalies))
	if score > 100 {
		return 100
	}
	return score
}

package model

import (
	"github.com/google/uuid"

	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// MatchFieldCount is the fixed denominator of the match score. Claims the
// applicant never made still count as unmatched so scores stay comparable
// across documents.
const MatchFieldCount = 5

// FieldMatches records which claimed applicant fields were found in a document.
type FieldMatches struct {
	Name          bool `json:"name"`
	Income        bool `json:"income"`
	PropertyValue bool `json:"property_value"`
	PAN           bool `json:"pan"`
	Aadhaar       bool `json:"aadhaar"`
}

// Count returns the number of matched fields.
func (m FieldMatches) Count() int {
	n := 0
	for _, ok := range []bool{m.Name, m.Income, m.PropertyValue, m.PAN, m.Aadhaar} {
		if ok {
			n++
		}
	}
	return n
}

// Score returns 100 * matched / MatchFieldCount.
func (m FieldMatches) Score() float64 {
	return 100 * float64(m.Count()) / MatchFieldCount
}

// VerificationResult is the outcome of verifying one document. A new run
// replaces the previous result for the same document.
type VerificationResult struct {
	DocumentID      uuid.UUID                      `json:"document_id"`
	DocumentType    valueobject.DocumentType       `json:"document_type"`
	Status          valueobject.VerificationStatus `json:"status"`
	RiskLevel       valueobject.RiskLevel          `json:"risk_level"`
	Reason          string                         `json:"reason"`
	Anomalies       []Anomaly                      `json:"anomalies"`
	MatchScore      float64                        `json:"match_score"`
	AnomalyScore    float64                        `json:"anomaly_score"`
	ConfidenceScore float64                        `json:"confidence_score"`
	Matches         FieldMatches                   `json:"matches"`
	AdvisoryUsed    bool                           `json:"advisory_used"`
}

package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/loanrisk/pkg/events"
)

const (
	// EventTypeDecisionMade is emitted every time an application is decided.
	EventTypeDecisionMade = "loanrisk.decision.made"

	// EventTypeHighRiskDetected is emitted when an assessment lands in VERY_HIGH.
	EventTypeHighRiskDetected = "loanrisk.application.high_risk"

	aggregateType = "LoanDecision"
)

// DecisionMade is published when a decision cycle completes.
type DecisionMade struct {
	events.BaseEvent
	DecidedAt        time.Time `json:"decided_at"`
	Status           string    `json:"status"`
	RiskLevel        string    `json:"risk_level"`
	InterestRate     string    `json:"interest_rate,omitempty"`
	EMIAmount        string    `json:"emi_amount,omitempty"`
	Reason           string    `json:"reason"`
	OverallRiskScore float64   `json:"overall_risk_score"`
	LoanTermYears    int       `json:"loan_term_years,omitempty"`
	DecisionID       uuid.UUID `json:"decision_id"`
	ApplicationID    uuid.UUID `json:"application_id"`
}

// NewDecisionMade creates a DecisionMade event.
func NewDecisionMade(
	decisionID, applicationID uuid.UUID,
	status, riskLevel string,
	overallRiskScore float64,
	interestRate, emiAmount string,
	loanTermYears int,
	reason string,
	decidedAt time.Time,
) DecisionMade {
	return DecisionMade{
		BaseEvent:        events.NewBaseEvent(EventTypeDecisionMade, aggregateType, decisionID, decidedAt),
		DecisionID:       decisionID,
		ApplicationID:    applicationID,
		Status:           status,
		RiskLevel:        riskLevel,
		OverallRiskScore: overallRiskScore,
		InterestRate:     interestRate,
		EMIAmount:        emiAmount,
		LoanTermYears:    loanTermYears,
		Reason:           reason,
		DecidedAt:        decidedAt,
	}
}

// HighRiskDetected is published alongside DecisionMade for VERY_HIGH assessments
// so that fraud and collections teams can follow up.
type HighRiskDetected struct {
	events.BaseEvent
	DetectedAt       time.Time `json:"detected_at"`
	Signals          []string  `json:"signals"`
	OverallRiskScore float64   `json:"overall_risk_score"`
	DecisionID       uuid.UUID `json:"decision_id"`
	ApplicationID    uuid.UUID `json:"application_id"`
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(
	decisionID, applicationID uuid.UUID,
	overallRiskScore float64,
	signals []string,
	detectedAt time.Time,
) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:        events.NewBaseEvent(EventTypeHighRiskDetected, aggregateType, decisionID, detectedAt),
		DecisionID:       decisionID,
		ApplicationID:    applicationID,
		OverallRiskScore: overallRiskScore,
		Signals:          signals,
		DetectedAt:       detectedAt,
	}
}

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
	"github.com/bibbank/loanrisk/pkg/events"
)

// LoanDecision is the aggregate root persisted for each decided application.
// Deciding the same application again replaces its contents and bumps the version.
type LoanDecision struct {
	decidedAt     time.Time
	createdAt     time.Time
	updatedAt     time.Time
	verifications []VerificationResult
	schedule      []AmortizationEntry
	summary       VerificationSummary
	decision      DecisionResult
	assessment    RiskAssessment
	events.EventCollector
	version       int
	id            uuid.UUID
	applicationID uuid.UUID
}

// NewLoanDecision creates an empty decision record for an application.
func NewLoanDecision(applicationID uuid.UUID, now time.Time) (*LoanDecision, error) {
	if applicationID == uuid.Nil {
		return nil, fmt.Errorf("application ID is required")
	}
	return &LoanDecision{
		id:            uuid.New(),
		applicationID: applicationID,
		version:       0,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Record stores the outcome of a decision cycle and emits DecisionMade, plus
// HighRiskDetected when the assessment is VERY_HIGH.
func (d *LoanDecision) Record(
	verifications []VerificationResult,
	assessment RiskAssessment,
	decision DecisionResult,
	summary VerificationSummary,
	schedule []AmortizationEntry,
	now time.Time,
) error {
	if assessment.OverallRiskScore < 0 || assessment.OverallRiskScore > 100 {
		return fmt.Errorf("overall risk score must be between 0 and 100, got %v", assessment.OverallRiskScore)
	}
	if decision.Status.String() == "" {
		return fmt.Errorf("decision status is required")
	}

	d.verifications = verifications
	d.assessment = assessment
	d.decision = decision
	d.summary = summary
	d.schedule = schedule
	d.decidedAt = now
	d.updatedAt = now
	d.version++

	d.EventCollector.Record(event.NewDecisionMade(
		d.id, d.applicationID,
		decision.Status.String(), assessment.RiskLevel.String(),
		assessment.OverallRiskScore,
		decimalString(decision.InterestRate), decimalString(decision.EMIAmount),
		decision.LoanTermYears,
		decision.Reason,
		now,
	))

	if assessment.RiskLevel.Equal(valueobject.RiskLevelVeryHigh) {
		d.EventCollector.Record(event.NewHighRiskDetected(
			d.id, d.applicationID,
			assessment.OverallRiskScore,
			d.riskSignals(),
			now,
		))
	}

	return nil
}

// riskSignals lists the anomaly types and rejected documents behind the assessment.
func (d *LoanDecision) riskSignals() []string {
	signals := make([]string, 0)
	seen := make(map[string]bool)
	for _, v := range d.verifications {
		if v.Status.Equal(valueobject.VerificationRejected) {
			key := "rejected_" + v.DocumentType.String()
			if !seen[key] {
				seen[key] = true
				signals = append(signals, key)
			}
		}
		for _, a := range v.Anomalies {
			if !seen[a.Type] {
				seen[a.Type] = true
				signals = append(signals, a.Type)
			}
		}
	}
	return signals
}

// ReconstructLoanDecision rebuilds a LoanDecision from persisted data (no validation, no events).
func ReconstructLoanDecision(
	id, applicationID uuid.UUID,
	verifications []VerificationResult,
	assessment RiskAssessment,
	decision DecisionResult,
	summary VerificationSummary,
	schedule []AmortizationEntry,
	version int,
	decidedAt, createdAt, updatedAt time.Time,
) *LoanDecision {
	return &LoanDecision{
		id:            id,
		applicationID: applicationID,
		verifications: verifications,
		assessment:    assessment,
		decision:      decision,
		summary:       summary,
		schedule:      schedule,
		version:       version,
		decidedAt:     decidedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Accessors ---

func (d *LoanDecision) ID() uuid.UUID                       { return d.id }
func (d *LoanDecision) ApplicationID() uuid.UUID            { return d.applicationID }
func (d *LoanDecision) Verifications() []VerificationResult { return d.verifications }
func (d *LoanDecision) Assessment() RiskAssessment          { return d.assessment }
func (d *LoanDecision) Decision() DecisionResult            { return d.decision }
func (d *LoanDecision) Summary() VerificationSummary        { return d.summary }
func (d *LoanDecision) Schedule() []AmortizationEntry       { return d.schedule }
func (d *LoanDecision) Version() int                        { return d.version }
func (d *LoanDecision) DecidedAt() time.Time                { return d.decidedAt }
func (d *LoanDecision) CreatedAt() time.Time                { return d.createdAt }
func (d *LoanDecision) UpdatedAt() time.Time                { return d.updatedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (d *LoanDecision) DomainEvents() []events.DomainEvent {
	return d.Drain()
}

func decimalString(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

package port

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

var (
	// ErrAdvisoryDisabled is returned by the no-op scorer when no advisory
	// service is configured. It is never retried.
	ErrAdvisoryDisabled = errors.New("advisory service disabled")

	// ErrAdvisoryUnavailable is returned when the advisory service is
	// unreachable or answers with something that cannot be used.
	ErrAdvisoryUnavailable = errors.New("advisory service unavailable")

	// ErrAdvisoryTimeout is returned when an advisory call exceeds its time bound.
	ErrAdvisoryTimeout = errors.New("advisory call timed out")
)

// AdvisoryPurpose selects which opinion is requested from the advisory service.
type AdvisoryPurpose string

const (
	// AdvisoryPurposeDocument asks for an opinion on one document.
	AdvisoryPurposeDocument AdvisoryPurpose = "DOCUMENT"
	// AdvisoryPurposeApplication asks for an opinion on the whole application.
	AdvisoryPurposeApplication AdvisoryPurpose = "APPLICATION"
)

// AdvisoryInput is everything the advisory service may see.
type AdvisoryInput struct {
	Purpose           AdvisoryPurpose
	DocumentType      valueobject.DocumentType
	Text              string
	ApplicantName     string
	MonthlyIncome     decimal.Decimal
	LoanAmount        decimal.Decimal
	PropertyValuation decimal.Decimal
	Features          model.Features
	CIBILScore        int
}

// AdvisoryResult is a non-authoritative opinion. A zero RiskLevel or
// Recommendation means the service did not express one.
type AdvisoryResult struct {
	RiskLevel      valueobject.RiskLevel
	Recommendation valueobject.Recommendation
	Notes          string
	RiskFactors    []string
	Anomalies      []model.Anomaly
	RiskScore      float64
	Confidence     float64
}

// IsNegative reports whether the opinion argues against the subject.
func (r AdvisoryResult) IsNegative() bool {
	return r.Recommendation.IsNegative() || r.RiskLevel.Equal(valueobject.RiskLevelHigh) ||
		r.RiskLevel.Equal(valueobject.RiskLevelVeryHigh)
}

// AdvisoryScorer is the capability interface of the optional external
// opinion service. Implementations may block; callers bound them.
type AdvisoryScorer interface {
	Score(ctx context.Context, in AdvisoryInput) (AdvisoryResult, error)
}

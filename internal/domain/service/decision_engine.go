package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// RateTier is one approval band. A score is in the band when it is at most
// MaxRiskScore and above the previous band's limit. ReasonFormat receives the
// overall risk score as its only argument.
type RateTier struct {
	InterestRate decimal.Decimal
	ReasonFormat string
	MaxRiskScore float64
	TermYears    int
}

// DecisionPolicy holds the tier table and the hard eligibility gates. A zero
// MinCIBIL or MaxLoanToValue disables that gate.
type DecisionPolicy struct {
	Tiers          []RateTier
	MaxLoanToValue float64
	MinCIBIL       int
}

// DefaultDecisionPolicy returns the standard tiers with the optional gates off.
//
//	score <= 30 -> approved, 8.0%, 20y
//	score <= 50 -> approved, 10.5%, 15y
//	score <= 70 -> approved, 12.5%, 10y
//	score >  70 -> rejected
func DefaultDecisionPolicy() DecisionPolicy {
	return DecisionPolicy{
		Tiers: []RateTier{
			{
				MaxRiskScore: 30,
				InterestRate: decimal.RequireFromString("8.0"),
				TermYears:    20,
				ReasonFormat: "Excellent application! Low risk profile with %.1f%% risk score",
			},
			{
				MaxRiskScore: 50,
				InterestRate: decimal.RequireFromString("10.5"),
				TermYears:    15,
				ReasonFormat: "Good application approved. Risk score: %.1f%%",
			},
			{
				MaxRiskScore: 70,
				InterestRate: decimal.RequireFromString("12.5"),
				TermYears:    10,
				ReasonFormat: "Application approved with adjusted terms. Risk score: %.1f%%",
			},
		},
	}
}

// Validate checks that the tiers are non-empty, strictly ascending and within [0,100].
func (p DecisionPolicy) Validate() error {
	if len(p.Tiers) == 0 {
		return errors.New("decision policy needs at least one tier")
	}
	prev := -1.0
	for i, t := range p.Tiers {
		if t.MaxRiskScore <= prev || t.MaxRiskScore > 100 {
			return fmt.Errorf("tier %d: max risk score %v must be ascending and at most 100", i, t.MaxRiskScore)
		}
		if t.TermYears <= 0 {
			return fmt.Errorf("tier %d: term must be positive", i)
		}
		if t.InterestRate.IsNegative() {
			return fmt.Errorf("tier %d: interest rate must not be negative", i)
		}
		prev = t.MaxRiskScore
	}
	if p.MinCIBIL < 0 || p.MaxLoanToValue < 0 {
		return errors.New("eligibility gates must not be negative")
	}
	return nil
}

// DecisionEngine maps an assessment to an approve/reject decision with terms.
type DecisionEngine struct {
	policy DecisionPolicy
}

// NewDecisionEngine creates a DecisionEngine for a validated policy.
func NewDecisionEngine(policy DecisionPolicy) (*DecisionEngine, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decision policy: %w", err)
	}
	return &DecisionEngine{policy: policy}, nil
}

// Decide evaluates the hard gates, then the tier table from low to high.
// Approved results carry the EMI and loan totals; rejected results carry
// zero rate, term and amounts. It panics on an invalid profile or an
// assessment with out-of-range scores.
func (e *DecisionEngine) Decide(p model.ApplicantProfile, a model.RiskAssessment) model.DecisionResult {
	p.MustValidate()
	a.CheckInvariants()

	score := a.OverallRiskScore
	if reason, ok := e.gate(p); !ok {
		return rejected(reason)
	}

	for _, t := range e.policy.Tiers {
		if score > t.MaxRiskScore {
			continue
		}
		months := t.TermYears * 12
		return model.DecisionResult{
			Status:        valueobject.DecisionApproved,
			Reason:        fmt.Sprintf(t.ReasonFormat, score),
			InterestRate:  t.InterestRate,
			LoanTermYears: t.TermYears,
			EMIAmount:     model.CalculateEMI(p.LoanAmount, t.InterestRate, months),
			TotalInterest: model.TotalInterest(p.LoanAmount, t.InterestRate, months),
			TotalPayment:  model.TotalPayment(p.LoanAmount, t.InterestRate, months),
		}
	}
	return rejected(fmt.Sprintf("Application declined due to high risk profile. Risk score: %.1f%%", score))
}

func (e *DecisionEngine) gate(p model.ApplicantProfile) (string, bool) {
	if !p.LoanAmount.IsPositive() {
		return "Application declined: loan amount must be positive", false
	}
	if e.policy.MinCIBIL > 0 && p.CIBILScore < e.policy.MinCIBIL {
		return fmt.Sprintf("Application declined: CIBIL score %d below minimum %d", p.CIBILScore, e.policy.MinCIBIL), false
	}
	if e.policy.MaxLoanToValue > 0 {
		if ltv := ExtractFeatures(p).LoanToValue; ltv > e.policy.MaxLoanToValue {
			return fmt.Sprintf("Application declined: loan-to-value %.1f%% above maximum %.1f%%", ltv, e.policy.MaxLoanToValue), false
		}
	}
	return "", true
}

func rejected(reason string) model.DecisionResult {
	return model.DecisionResult{
		Status:        valueobject.DecisionRejected,
		Reason:        reason,
		InterestRate:  decimal.Zero,
		EMIAmount:     decimal.Zero,
		TotalInterest: decimal.Zero,
		TotalPayment:  decimal.Zero,
	}
}

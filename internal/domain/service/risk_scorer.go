package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// RiskWeights are the category weights of the overall risk score.
type RiskWeights struct {
	Employment float64
	Documents  float64
	Financial  float64
	Fraud      float64
	Advisory   float64
}

// DefaultRiskWeights returns the standard weighting.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		Employment: 0.25,
		Documents:  0.15,
		Financial:  0.35,
		Fraud:      0.15,
		Advisory:   0.10,
	}
}

// Validate checks that every weight is non-negative and that they total 1.0.
func (w RiskWeights) Validate() error {
	sum := 0.0
	for _, v := range []float64{w.Employment, w.Documents, w.Financial, w.Fraud, w.Advisory} {
		if v < 0 {
			return fmt.Errorf("risk weight must not be negative, got %v", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("risk weights must total 1.0, got %v", sum)
	}
	return nil
}

const (
	highIncomeThreshold    = 500_000
	collateralRatioLimit   = 10
	thinFileIncomeCeiling  = 50_000
	thinFileCIBILThreshold = 800
	defaultFraudRisk       = 15
)

// RiskScorer combines the category risks into one weighted assessment.
// Assess is a pure function of its inputs.
type RiskScorer struct {
	employment *EmploymentVerifier
	weights    RiskWeights
}

// NewRiskScorer creates a RiskScorer. The employment verifier supplies the
// employment category.
func NewRiskScorer(employment *EmploymentVerifier, weights RiskWeights) (*RiskScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if employment == nil {
		employment = NewEmploymentVerifier(nil)
	}
	return &RiskScorer{employment: employment, weights: weights}, nil
}

// Assess computes the RiskAssessment using the deterministic advisory model.
func (s *RiskScorer) Assess(p model.ApplicantProfile, results []model.VerificationResult) model.RiskAssessment {
	return s.AssessWithOpinion(p, results, nil)
}

// AssessWithOpinion computes the RiskAssessment. When opinion is non-nil its
// risk score replaces the deterministic advisory model. It panics if the
// profile is invalid.
func (s *RiskScorer) AssessWithOpinion(p model.ApplicantProfile, results []model.VerificationResult, opinion *port.AdvisoryResult) model.RiskAssessment {
	p.MustValidate()
	f := ExtractFeatures(p)

	a := model.RiskAssessment{
		Employment: s.employment.Verify(p, salarySlipResult(results)).RiskScore,
		Documents:  DocumentRisk(results),
		Financial:  FinancialRisk(f, p.CIBILScore),
		Fraud:      FraudRisk(p),
		Advisory:   DeterministicAdvisoryRisk(f, p.CIBILScore),
	}
	if opinion != nil {
		a.Advisory = model.ClampScore(opinion.RiskScore)
	}

	a.OverallRiskScore = model.ClampScore(a.Employment*s.weights.Employment +
		a.Documents*s.weights.Documents +
		a.Financial*s.weights.Financial +
		a.Fraud*s.weights.Fraud +
		a.Advisory*s.weights.Advisory)
	a.RiskLevel = valueobject.RiskLevelFromOverallScore(a.OverallRiskScore)

	a.CheckInvariants()
	return a
}

// FinancialRisk is the tiered additive DTI + LTV + CIBIL score, capped at 100.
func FinancialRisk(f model.Features, cibil int) float64 {
	risk := 0.0
	switch {
	case f.DebtToIncome <= 30:
		risk += 10
	case f.DebtToIncome <= 50:
		risk += 20
	default:
		risk += 40
	}
	switch {
	case f.LoanToValue <= 60:
		risk += 5
	case f.LoanToValue <= 80:
		risk += 15
	default:
		risk += 30
	}
	switch {
	case cibil >= 750:
		risk += 5
	case cibil >= 600:
		risk += 15
	default:
		risk += 30
	}
	return math.Min(100, risk)
}

// FraudRisk averages the triggered fraud-pattern indicators. With no
// indicator triggered the baseline of 15 applies.
func FraudRisk(p model.ApplicantProfile) float64 {
	var indicators []float64
	if p.MonthlyIncome.GreaterThan(decimal.NewFromInt(highIncomeThreshold)) {
		indicators = append(indicators, 0.3)
	}
	if p.LoanAmount.IsPositive() &&
		p.PropertyValuation.Div(p.LoanAmount).GreaterThan(decimal.NewFromInt(collateralRatioLimit)) {
		indicators = append(indicators, 0.2)
	}
	if p.CIBILScore >= thinFileCIBILThreshold && p.MonthlyIncome.LessThan(decimal.NewFromInt(thinFileIncomeCeiling)) {
		indicators = append(indicators, 0.4)
	}
	if len(indicators) == 0 {
		return defaultFraudRisk
	}
	return math.Min(100, mean(indicators)*100)
}

// DeterministicAdvisoryRisk is the fallback advisory model: the mean of the
// CIBIL, DTI, LTV and salary adequacy factor risks, scaled to [0,100].
func DeterministicAdvisoryRisk(f model.Features, cibil int) float64 {
	factors := make([]float64, 0, 4)
	switch {
	case cibil >= 800:
		factors = append(factors, 0.1)
	case cibil >= 750:
		factors = append(factors, 0.3)
	case cibil >= 700:
		factors = append(factors, 0.5)
	default:
		factors = append(factors, 0.8)
	}
	switch {
	case f.DebtToIncome <= 30:
		factors = append(factors, 0.2)
	case f.DebtToIncome <= 50:
		factors = append(factors, 0.4)
	default:
		factors = append(factors, 0.8)
	}
	switch {
	case f.LoanToValue <= 60:
		factors = append(factors, 0.1)
	case f.LoanToValue <= 80:
		factors = append(factors, 0.3)
	default:
		factors = append(factors, 0.7)
	}
	switch {
	case f.SalaryAdequacy >= 5000:
		factors = append(factors, 0.2)
	case f.SalaryAdequacy >= 3000:
		factors = append(factors, 0.4)
	default:
		factors = append(factors, 0.8)
	}
	return mean(factors) * 100
}

// DocumentRisk averages the per-type document risk over the required types.
// A missing type contributes the PENDING risk.
func DocumentRisk(results []model.VerificationResult) float64 {
	total := 0.0
	for _, dt := range valueobject.RequiredDocumentTypes {
		if res, ok := worstResult(results, dt); ok {
			total += statusRisk[res.Status]
		} else {
			total += statusRisk[valueobject.VerificationPending]
		}
	}
	return total / float64(len(valueobject.RequiredDocumentTypes))
}

func salarySlipResult(results []model.VerificationResult) *model.VerificationResult {
	if res, ok := worstResult(results, valueobject.DocumentTypeSalarySlips); ok {
		return &res
	}
	return nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

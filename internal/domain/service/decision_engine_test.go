package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func assessment(score float64) model.RiskAssessment {
	return model.RiskAssessment{
		Employment:       score,
		Documents:        score,
		Financial:        score,
		Fraud:            score,
		Advisory:         score,
		OverallRiskScore: score,
		RiskLevel:        valueobject.RiskLevelFromOverallScore(score),
	}
}

func newDecider(t *testing.T, policy service.DecisionPolicy) *service.DecisionEngine {
	t.Helper()
	e, err := service.NewDecisionEngine(policy)
	require.NoError(t, err)
	return e
}

func TestDecisionEngine_ExcellentApplication(t *testing.T) {
	d := newDecider(t, service.DefaultDecisionPolicy()).Decide(testProfile(), assessment(28))

	assert.Equal(t, valueobject.DecisionApproved, d.Status)
	assert.True(t, d.InterestRate.Equal(decimal.RequireFromString("8.0")))
	assert.Equal(t, 20, d.LoanTermYears)
	assert.Equal(t, "Excellent application! Low risk profile with 28.0% risk score", d.Reason)
	assert.InDelta(t, 20911.65, d.EMIAmount.InexactFloat64(), 1.0)
	assert.True(t, d.TotalPayment.Equal(d.EMIAmount.Mul(decimal.NewFromInt(240))))
	assert.True(t, d.TotalInterest.Equal(d.TotalPayment.Sub(testProfile().LoanAmount)))
}

func TestDecisionEngine_TierBoundaries(t *testing.T) {
	tests := []struct {
		score  float64
		status valueobject.DecisionStatus
		rate   string
		years  int
	}{
		{0, valueobject.DecisionApproved, "8.0", 20},
		{30, valueobject.DecisionApproved, "8.0", 20},
		{30.01, valueobject.DecisionApproved, "10.5", 15},
		{50, valueobject.DecisionApproved, "10.5", 15},
		{50.5, valueobject.DecisionApproved, "12.5", 10},
		{70, valueobject.DecisionApproved, "12.5", 10},
		{70.01, valueobject.DecisionRejected, "0", 0},
		{100, valueobject.DecisionRejected, "0", 0},
	}

	e := newDecider(t, service.DefaultDecisionPolicy())
	for _, tt := range tests {
		d := e.Decide(testProfile(), assessment(tt.score))

		assert.Equal(t, tt.status, d.Status, "score %v", tt.score)
		assert.True(t, d.InterestRate.Equal(decimal.RequireFromString(tt.rate)), "score %v rate %s", tt.score, d.InterestRate)
		assert.Equal(t, tt.years, d.LoanTermYears, "score %v", tt.score)
	}
}

func TestDecisionEngine_EveryScoreIsConsistent(t *testing.T) {
	e := newDecider(t, service.DefaultDecisionPolicy())

	for i := 0; i <= 1000; i++ {
		score := float64(i) / 10
		d := e.Decide(testProfile(), assessment(score))

		if score <= 70 {
			require.True(t, d.Status.IsApproved(), "score %v", score)
			require.True(t, d.EMIAmount.IsPositive(), "score %v", score)
			require.Positive(t, d.LoanTermYears)
			continue
		}
		require.Equal(t, valueobject.DecisionRejected, d.Status, "score %v", score)
		require.True(t, d.EMIAmount.IsZero())
		require.True(t, d.TotalPayment.IsZero())
		require.True(t, d.TotalInterest.IsZero())
		require.True(t, d.InterestRate.IsZero())
		require.Zero(t, d.LoanTermYears)
	}
}

func TestDecisionEngine_HighRiskReason(t *testing.T) {
	d := newDecider(t, service.DefaultDecisionPolicy()).Decide(testProfile(), assessment(82.345))

	assert.Equal(t, "Application declined due to high risk profile. Risk score: 82.3%", d.Reason)
}

func TestDecisionEngine_Gates(t *testing.T) {
	policy := service.DefaultDecisionPolicy()
	policy.MinCIBIL = 700
	policy.MaxLoanToValue = 80
	e := newDecider(t, policy)

	t.Run("passes gates", func(t *testing.T) {
		assert.True(t, e.Decide(testProfile(), assessment(10)).Status.IsApproved())
	})

	t.Run("cibil below minimum", func(t *testing.T) {
		p := testProfile()
		p.CIBILScore = 650
		d := e.Decide(p, assessment(10))
		assert.Equal(t, valueobject.DecisionRejected, d.Status)
		assert.Contains(t, d.Reason, "CIBIL score 650 below minimum 700")
	})

	t.Run("loan to value above maximum", func(t *testing.T) {
		p := testProfile()
		p.PropertyValuation = decimal.NewFromInt(2_800_000)
		d := e.Decide(p, assessment(10))
		assert.Equal(t, valueobject.DecisionRejected, d.Status)
		assert.Contains(t, d.Reason, "loan-to-value 89.3%")
	})

	t.Run("zero loan amount", func(t *testing.T) {
		p := testProfile()
		p.LoanAmount = decimal.Zero
		d := newDecider(t, service.DefaultDecisionPolicy()).Decide(p, assessment(10))
		assert.Equal(t, valueobject.DecisionRejected, d.Status)
		assert.True(t, d.EMIAmount.IsZero())
	})
}

func TestDecisionPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *service.DecisionPolicy)
	}{
		{"no tiers", func(p *service.DecisionPolicy) { p.Tiers = nil }},
		{"descending tiers", func(p *service.DecisionPolicy) { p.Tiers[1].MaxRiskScore = 20 }},
		{"tier above 100", func(p *service.DecisionPolicy) { p.Tiers[2].MaxRiskScore = 120 }},
		{"zero term", func(p *service.DecisionPolicy) { p.Tiers[0].TermYears = 0 }},
		{"negative rate", func(p *service.DecisionPolicy) { p.Tiers[0].InterestRate = decimal.NewFromInt(-1) }},
		{"negative gate", func(p *service.DecisionPolicy) { p.MinCIBIL = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := service.DefaultDecisionPolicy()
			tt.mutate(&policy)
			_, err := service.NewDecisionEngine(policy)
			assert.Error(t, err)
		})
	}
}

func TestDecisionEngine_PanicsOnOutOfRangeAssessment(t *testing.T) {
	e := newDecider(t, service.DefaultDecisionPolicy())
	a := assessment(40)
	a.Fraud = 140

	assert.Panics(t, func() { e.Decide(testProfile(), a) })
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func TestVerifyDocument_Execute(t *testing.T) {
	uc := usecase.NewVerifyDocumentUseCase(newServices(t).verifier)

	t.Run("salary slip matching the applicant is verified", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), dto.VerifyDocumentRequest{Applicant: testApplicant(), Document: salarySlip()})
		require.NoError(t, err)
		assert.Equal(t, valueobject.VerificationVerified, res.Status)
		assert.Equal(t, valueobject.DocumentTypeSalarySlips, res.DocumentType)
	})

	t.Run("absent document is rejected, not an error", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), dto.VerifyDocumentRequest{Applicant: testApplicant()})
		require.NoError(t, err)
		assert.Equal(t, valueobject.VerificationRejected, res.Status)
	})

	t.Run("failed extraction is rejected", func(t *testing.T) {
		doc := salarySlip()
		doc.ExtractionFailed = true
		res, err := uc.Execute(context.Background(), dto.VerifyDocumentRequest{Applicant: testApplicant(), Document: doc})
		require.NoError(t, err)
		assert.Equal(t, valueobject.VerificationRejected, res.Status)
	})

	t.Run("malformed document id", func(t *testing.T) {
		doc := salarySlip()
		doc.DocumentID = "not-a-uuid"
		_, err := uc.Execute(context.Background(), dto.VerifyDocumentRequest{Applicant: testApplicant(), Document: doc})
		require.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})

	t.Run("nil application id", func(t *testing.T) {
		applicant := testApplicant()
		applicant.ApplicationID = "00000000-0000-0000-0000-000000000000"
		_, err := uc.Execute(context.Background(), dto.VerifyDocumentRequest{Applicant: applicant})
		require.ErrorIs(t, err, model.ErrInvalidProfile)
	})
}

func TestAssessRisk_Execute(t *testing.T) {
	uc := usecase.NewAssessRiskUseCase(newServices(t).scorer)

	t.Run("no verifications uses the deterministic advisory model", func(t *testing.T) {
		a, err := uc.Execute(context.Background(), dto.AssessRiskRequest{Applicant: testApplicant()})
		require.NoError(t, err)
		assert.InDelta(t, 42.25, a.OverallRiskScore, 1e-9)
		assert.Equal(t, valueobject.RiskLevelMedium, a.RiskLevel)
	})

	t.Run("out of range scores are rejected", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			Applicant: testApplicant(),
			Verifications: []model.VerificationResult{{
				DocumentType: valueobject.DocumentTypeSalarySlips,
				Status:       valueobject.VerificationVerified,
				MatchScore:   120,
			}},
		})
		require.ErrorIs(t, err, usecase.ErrInvalidRequest)
		assert.Contains(t, err.Error(), "verification 0")
	})

	t.Run("missing status is rejected", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			Applicant:     testApplicant(),
			Verifications: []model.VerificationResult{{DocumentType: valueobject.DocumentTypeSalarySlips}},
		})
		require.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})
}

func uniform(score float64) model.RiskAssessment {
	return model.RiskAssessment{
		Employment:       score,
		Documents:        score,
		Financial:        score,
		Fraud:            score,
		Advisory:         score,
		OverallRiskScore: score,
	}
}

func TestDecide_Execute(t *testing.T) {
	uc := usecase.NewDecideUseCase(newServices(t).decider)

	d, err := uc.Execute(context.Background(), dto.DecideRequest{Applicant: testApplicant(), Assessment: uniform(28)})
	require.NoError(t, err)
	assert.Equal(t, valueobject.DecisionApproved, d.Status)
	assert.True(t, d.InterestRate.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, 20, d.LoanTermYears)

	_, err = uc.Execute(context.Background(), dto.DecideRequest{Applicant: testApplicant(), Assessment: uniform(140)})
	require.ErrorIs(t, err, usecase.ErrInvalidRequest)
}

func TestBuildSchedule_Execute(t *testing.T) {
	uc := usecase.NewBuildScheduleUseCase(newServices(t).amort)
	principal := decimal.NewFromInt(2_500_000)

	t.Run("computes the emi when omitted", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.BuildScheduleRequest{
			Principal:    principal,
			InterestRate: decimal.NewFromInt(8),
			Months:       240,
		})
		require.NoError(t, err)
		assert.InDelta(t, 20911.65, resp.EMI.InexactFloat64(), 1.0)
		assert.True(t, resp.TotalPayment.Equal(resp.EMI.Mul(decimal.NewFromInt(240)).Round(2)))
		assert.True(t, resp.TotalInterest.Equal(resp.TotalPayment.Sub(principal)))
		require.Len(t, resp.Entries, 240)
		assert.True(t, resp.Entries[239].RemainingBalance.IsZero())
	})

	t.Run("uses the supplied emi", func(t *testing.T) {
		emi := decimal.NewFromInt(25_000)
		resp, err := uc.Execute(context.Background(), dto.BuildScheduleRequest{
			Principal:    principal,
			InterestRate: decimal.NewFromInt(8),
			EMI:          emi,
			Months:       240,
		})
		require.NoError(t, err)
		assert.True(t, resp.EMI.Equal(emi))
		assert.True(t, resp.Entries[0].EMI.Equal(emi))
		assert.True(t, resp.TotalPayment.Equal(decimal.NewFromInt(6_000_000)))
	})

	invalid := []struct {
		name string
		req  dto.BuildScheduleRequest
	}{
		{"zero principal", dto.BuildScheduleRequest{InterestRate: decimal.NewFromInt(8), Months: 12}},
		{"negative rate", dto.BuildScheduleRequest{Principal: principal, InterestRate: decimal.NewFromInt(-1), Months: 12}},
		{"zero months", dto.BuildScheduleRequest{Principal: principal, InterestRate: decimal.NewFromInt(8)}},
		{"too many months", dto.BuildScheduleRequest{Principal: principal, InterestRate: decimal.NewFromInt(8), Months: usecase.MaxScheduleMonths + 1}},
		{"negative emi", dto.BuildScheduleRequest{Principal: principal, InterestRate: decimal.NewFromInt(8), Months: 12, EMI: decimal.NewFromInt(-5)}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, usecase.ErrInvalidRequest)
		})
	}
}

func TestGetDecision_Execute(t *testing.T) {
	repo := newMemRepo()
	uc := usecase.NewGetDecisionUseCase(repo)

	_, err := uc.Execute(context.Background(), dto.GetDecisionRequest{ApplicationID: "nope"})
	require.ErrorIs(t, err, usecase.ErrInvalidRequest)

	_, err = uc.Execute(context.Background(), dto.GetDecisionRequest{ApplicationID: applicationID})
	require.ErrorIs(t, err, port.ErrDecisionNotFound)

	assess := usecase.NewAssessApplicationUseCase(newServices(t).engine, repo, &fakePublisher{}, nil, quietLogger(), clock)
	saved, err := assess.Execute(context.Background(), dto.AssessApplicationRequest{
		Applicant: testApplicant(),
		Documents: []*dto.Document{salarySlip()},
	})
	require.NoError(t, err)

	got, err := uc.Execute(context.Background(), dto.GetDecisionRequest{ApplicationID: applicationID})
	require.NoError(t, err)
	assert.Equal(t, saved.DecisionID, got.DecisionID)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, valueobject.DecisionApproved, got.Decision.Status)
	assert.Len(t, got.Schedule, 180)
	assert.True(t, got.DecidedAt.Equal(fixedNow))
}

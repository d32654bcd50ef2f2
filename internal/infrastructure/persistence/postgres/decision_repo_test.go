//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
	"github.com/bibbank/loanrisk/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/loanrisk/internal/infrastructure/persistence/postgres/migrations"
	pkgpostgres "github.com/bibbank/loanrisk/pkg/postgres"
	"github.com/bibbank/loanrisk/pkg/testutil"
)

var decidedAt = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) *postgres.DecisionRepo {
	t.Helper()
	pg := testutil.NewPostgresContainer(context.Background(), t)
	pg.Migrate(t, migrations.FS, ".")
	return postgres.NewDecisionRepo(pg.Pool)
}

func approvedDecision(t *testing.T, appID uuid.UUID) *model.LoanDecision {
	t.Helper()
	d, err := model.NewLoanDecision(appID, decidedAt)
	require.NoError(t, err)

	principal := decimal.NewFromInt(2_500_000)
	rate := decimal.NewFromFloat(8.0)
	emi := model.CalculateEMI(principal, rate, 240)
	verifs := []model.VerificationResult{
		{
			DocumentID:      testutil.TestDocumentID1,
			DocumentType:    valueobject.DocumentTypeSalarySlips,
			Status:          valueobject.VerificationVerified,
			RiskLevel:       valueobject.RiskLevelLow,
			Reason:          "Document verified successfully",
			MatchScore:      80,
			ConfidenceScore: 90,
			Matches:         model.FieldMatches{Name: true, Income: true, PAN: true, Aadhaar: true},
		},
		{
			DocumentType: valueobject.DocumentTypePANCard,
			Status:       valueobject.VerificationRejected,
			RiskLevel:    valueobject.RiskLevelHigh,
			Reason:       "Document unavailable",
			AnomalyScore: 100,
			Anomalies: []model.Anomaly{
				{Type: "EMPTY_CONTENT", Description: "Document has no extractable text", Severity: valueobject.SeverityHigh},
			},
		},
	}
	err = d.Record(verifs,
		model.RiskAssessment{RiskLevel: valueobject.RiskLevelVeryLow, OverallRiskScore: 18.5, Employment: 10},
		model.DecisionResult{
			Status:        valueobject.DecisionApproved,
			Reason:        "Excellent application! Low risk profile with 18.5% risk score",
			InterestRate:  rate,
			EMIAmount:     emi,
			TotalInterest: model.TotalInterest(principal, rate, 240),
			TotalPayment:  model.TotalPayment(principal, rate, 240),
			LoanTermYears: 20,
		},
		model.VerificationSummary{RiskLevel: valueobject.RiskLevelVeryLow, RecommendedStatus: model.ReportApproved},
		model.BuildSchedule(principal, rate, 240, emi, decidedAt),
		decidedAt,
	)
	require.NoError(t, err)
	return d
}

func TestDecisionRepo_SaveAndFind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	saved := approvedDecision(t, testutil.TestApplicationID1)
	require.NoError(t, repo.Save(ctx, saved))

	got, err := repo.FindByApplicationID(ctx, testutil.TestApplicationID1)
	require.NoError(t, err)

	assert.Equal(t, saved.ID(), got.ID())
	assert.Equal(t, 1, got.Version())
	assert.True(t, got.DecidedAt().Equal(decidedAt))
	assert.Equal(t, saved.Assessment(), got.Assessment())
	assert.Equal(t, saved.Summary().RecommendedStatus, got.Summary().RecommendedStatus)

	dec := got.Decision()
	assert.True(t, dec.Status.Equal(valueobject.DecisionApproved))
	assert.True(t, dec.InterestRate.Equal(decimal.NewFromInt(8)))
	assert.True(t, dec.EMIAmount.Equal(saved.Decision().EMIAmount))
	assert.Equal(t, 20, dec.LoanTermYears)

	require.Len(t, got.Schedule(), 240)
	assert.True(t, got.Schedule()[239].RemainingBalance.IsZero())

	require.Len(t, got.Verifications(), 2)
	first, second := got.Verifications()[0], got.Verifications()[1]
	assert.Equal(t, testutil.TestDocumentID1, first.DocumentID)
	assert.True(t, first.Matches.PAN)
	assert.False(t, first.Matches.PropertyValue)
	assert.True(t, second.Status.Equal(valueobject.VerificationRejected))
	require.Len(t, second.Anomalies, 1)
	assert.Equal(t, "EMPTY_CONTENT", second.Anomalies[0].Type)
	assert.Empty(t, got.DomainEvents())
}

func TestDecisionRepo_RedecideReplacesVerifications(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, approvedDecision(t, testutil.TestApplicationID1)))

	loaded, err := repo.FindByApplicationID(ctx, testutil.TestApplicationID1)
	require.NoError(t, err)

	later := decidedAt.Add(time.Hour)
	err = loaded.Record(loaded.Verifications()[:1],
		model.RiskAssessment{RiskLevel: valueobject.RiskLevelHigh, OverallRiskScore: 72},
		model.DecisionResult{Status: valueobject.DecisionRejected, Reason: "High risk application. Risk score: 72.0%"},
		model.VerificationSummary{RiskLevel: valueobject.RiskLevelHigh, RecommendedStatus: model.ReportRejected},
		nil,
		later,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	got, err := repo.FindByApplicationID(ctx, testutil.TestApplicationID1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version())
	assert.True(t, got.Decision().Status.Equal(valueobject.DecisionRejected))
	assert.True(t, got.Decision().EMIAmount.IsZero())
	assert.Len(t, got.Verifications(), 1)
	assert.Empty(t, got.Schedule())
	assert.True(t, got.CreatedAt().Equal(decidedAt))
	assert.True(t, got.UpdatedAt().Equal(later))
}

func TestDecisionRepo_StaleVersionConflicts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, approvedDecision(t, testutil.TestApplicationID1)))

	a, err := repo.FindByApplicationID(ctx, testutil.TestApplicationID1)
	require.NoError(t, err)
	b, err := repo.FindByApplicationID(ctx, testutil.TestApplicationID1)
	require.NoError(t, err)

	for _, d := range []*model.LoanDecision{a, b} {
		require.NoError(t, d.Record(d.Verifications(), d.Assessment(), d.Decision(), d.Summary(), d.Schedule(), decidedAt))
	}
	require.NoError(t, repo.Save(ctx, a))
	assert.ErrorIs(t, repo.Save(ctx, b), port.ErrDecisionConflict)

	// A fresh aggregate for an already-decided application is also stale.
	assert.ErrorIs(t, repo.Save(ctx, approvedDecision(t, testutil.TestApplicationID1)), port.ErrDecisionConflict)
}

func TestDecisionRepo_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.FindByApplicationID(context.Background(), testutil.TestApplicationID2)
	assert.ErrorIs(t, err, port.ErrDecisionNotFound)
}

func TestMigrations_DownThenUp(t *testing.T) {
	pg := testutil.NewPostgresContainer(context.Background(), t)
	pg.Migrate(t, migrations.FS, ".")
	ctx := context.Background()

	repo := postgres.NewDecisionRepo(pg.Pool)
	require.NoError(t, repo.Save(ctx, approvedDecision(t, testutil.TestApplicationID1)))

	require.NoError(t, pkgpostgres.RunMigrationsDown(pg.DSN, migrations.FS, "."))
	require.NoError(t, pkgpostgres.RunMigrations(pg.DSN, migrations.FS, "."))

	_, err := repo.FindByApplicationID(ctx, testutil.TestApplicationID1)
	assert.ErrorIs(t, err, port.ErrDecisionNotFound)
}

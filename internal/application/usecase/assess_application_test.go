package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func newAssessApplication(t *testing.T, repo *memRepo, pub *fakePublisher, m *fakeMetrics) *usecase.AssessApplicationUseCase {
	t.Helper()
	return usecase.NewAssessApplicationUseCase(newServices(t).engine, repo, pub, m, quietLogger(), clock)
}

func TestAssessApplication_Execute(t *testing.T) {
	t.Run("decides, persists and publishes a new application", func(t *testing.T) {
		repo, pub, m := newMemRepo(), &fakePublisher{}, &fakeMetrics{}
		uc := newAssessApplication(t, repo, pub, m)

		resp, err := uc.Execute(context.Background(), dto.AssessApplicationRequest{
			Applicant: testApplicant(),
			Documents: []*dto.Document{salarySlip()},
		})
		require.NoError(t, err)

		assert.Equal(t, uuid.MustParse(applicationID), resp.ApplicationID)
		assert.Equal(t, 1, resp.Version)
		assert.NotEqual(t, uuid.Nil, resp.DecisionID)
		assert.InDelta(t, 30.5, resp.Report.Assessment.OverallRiskScore, 1e-9)
		assert.Equal(t, valueobject.DecisionApproved, resp.Report.Decision.Status)
		assert.Len(t, resp.Report.Schedule, 180)

		stored, err := repo.FindByApplicationID(context.Background(), resp.ApplicationID)
		require.NoError(t, err)
		assert.Equal(t, resp.DecisionID, stored.ID())
		assert.Len(t, stored.Verifications(), 1)
		assert.True(t, stored.DecidedAt().Equal(fixedNow))

		require.Len(t, pub.published, 1)
		assert.Equal(t, event.EventTypeDecisionMade, pub.published[0].EventType())

		require.Len(t, m.decisions, 1)
		assert.Equal(t, decisionObservation{"APPROVED", "LOW", 30.5}, m.decisions[0])
	})

	t.Run("re-assessing bumps the version of the same decision", func(t *testing.T) {
		repo, pub := newMemRepo(), &fakePublisher{}
		uc := newAssessApplication(t, repo, pub, &fakeMetrics{})
		req := dto.AssessApplicationRequest{Applicant: testApplicant(), Documents: []*dto.Document{salarySlip()}}

		first, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		req.Documents = append(req.Documents, nil)
		second, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, first.DecisionID, second.DecisionID)
		assert.Equal(t, 2, second.Version)
		require.Len(t, second.Report.Verifications, 2)
		assert.Equal(t, valueobject.VerificationRejected, second.Report.Verifications[1].Status)
		assert.Equal(t, 2, repo.saves)
		assert.Len(t, pub.published, 2)
	})

	t.Run("invalid profile is rejected before anything runs", func(t *testing.T) {
		repo, pub := newMemRepo(), &fakePublisher{}
		uc := newAssessApplication(t, repo, pub, &fakeMetrics{})

		applicant := testApplicant()
		applicant.CIBILScore = 120
		_, err := uc.Execute(context.Background(), dto.AssessApplicationRequest{Applicant: applicant})

		require.ErrorIs(t, err, model.ErrInvalidProfile)
		assert.Zero(t, repo.saves)
		assert.Empty(t, pub.published)
	})

	t.Run("unknown document type is an invalid request", func(t *testing.T) {
		uc := newAssessApplication(t, newMemRepo(), &fakePublisher{}, &fakeMetrics{})
		doc := salarySlip()
		doc.DocumentType = "UTILITY_BILL"

		_, err := uc.Execute(context.Background(), dto.AssessApplicationRequest{
			Applicant: testApplicant(),
			Documents: []*dto.Document{doc},
		})
		require.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})

	t.Run("repository lookup failure", func(t *testing.T) {
		repo := newMemRepo()
		repo.findErr = errors.New("connection refused")
		uc := newAssessApplication(t, repo, &fakePublisher{}, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), dto.AssessApplicationRequest{Applicant: testApplicant()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "find decision")
	})

	t.Run("concurrent modification surfaces as a conflict", func(t *testing.T) {
		repo := newMemRepo()
		repo.saveErr = port.ErrDecisionConflict
		m := &fakeMetrics{}
		uc := newAssessApplication(t, repo, &fakePublisher{}, m)

		_, err := uc.Execute(context.Background(), dto.AssessApplicationRequest{Applicant: testApplicant()})
		require.ErrorIs(t, err, port.ErrDecisionConflict)
		assert.Empty(t, m.decisions)
	})

	t.Run("publish failure", func(t *testing.T) {
		uc := newAssessApplication(t, newMemRepo(), &fakePublisher{err: errors.New("broker down")}, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), dto.AssessApplicationRequest{Applicant: testApplicant()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publish events")
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo := newMemRepo()
		uc := newAssessApplication(t, repo, &fakePublisher{}, &fakeMetrics{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := uc.Execute(ctx, dto.AssessApplicationRequest{Applicant: testApplicant(), Documents: []*dto.Document{salarySlip()}})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, repo.saves)
	})
}

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func TestDocumentVerifier_VerifiedWithoutAdvisory(t *testing.T) {
	v := newVerifier(nil)
	doc := document(valueobject.DocumentTypeSalarySlips, salarySlipText)

	res := v.Verify(context.Background(), doc, testProfile())

	assert.Equal(t, valueobject.VerificationVerified, res.Status)
	assert.Equal(t, doc.ID, res.DocumentID)
	assert.Equal(t, 60.0, res.MatchScore)
	assert.Equal(t, 0.0, res.AnomalyScore)
	assert.Equal(t, 80.0, res.ConfidenceScore)
	assert.Equal(t, valueobject.RiskLevelLow, res.RiskLevel)
	assert.False(t, res.AdvisoryUsed)
}

func TestDocumentVerifier_UnderReviewBelowMatchThreshold(t *testing.T) {
	res := newVerifier(nil).Verify(context.Background(),
		document(valueobject.DocumentTypeSalarySlips, salarySlipNoPANText), testProfile())

	assert.Equal(t, valueobject.VerificationUnderReview, res.Status)
	assert.Equal(t, 40.0, res.MatchScore)
}

func TestDocumentVerifier_RejectedOnHighSeverityAnomaly(t *testing.T) {
	text := "Salary Slip for Ravi Kumar\nBasic, HRA, PF\nNet Salary ₹52,340"

	res := newVerifier(nil).Verify(context.Background(),
		document(valueobject.DocumentTypeSalarySlips, text), testProfile())

	assert.Equal(t, valueobject.VerificationRejected, res.Status)
	assert.Contains(t, res.Reason, model.AnomalyNameMismatch)
}

func TestDocumentVerifier_AbsentOrUnreadableDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *model.DocumentRecord
	}{
		{"nil document", nil},
		{"extraction failed", &model.DocumentRecord{Type: valueobject.DocumentTypeBankStatements, Extracted: false}},
		{"blank text", &model.DocumentRecord{Type: valueobject.DocumentTypeBankStatements, Extracted: true, ExtractedText: "  \n "}},
	}

	scorer := answering(port.AdvisoryResult{Recommendation: valueobject.RecommendationVerified, Confidence: 99})
	v := newVerifier(advisorFor(scorer, time.Second))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Verify(context.Background(), tt.doc, testProfile())
			assert.Equal(t, valueobject.VerificationRejected, res.Status)
			assert.Equal(t, service.ReasonDocumentUnavailable, res.Reason)
			assert.Zero(t, res.MatchScore)
			assert.Zero(t, res.ConfidenceScore)
			assert.Zero(t, res.AnomalyScore)
		})
	}
	assert.Zero(t, scorer.calls.Load(), "advisory is not consulted for missing documents")
}

func TestDocumentVerifier_AdvisoryOpinion(t *testing.T) {
	tests := []struct {
		name    string
		opinion port.AdvisoryResult
		want    valueobject.VerificationStatus
	}{
		{
			name:    "positive opinion keeps verified",
			opinion: port.AdvisoryResult{RiskLevel: valueobject.RiskLevelLow, Recommendation: valueobject.RecommendationVerified, Confidence: 90},
			want:    valueobject.VerificationVerified,
		},
		{
			name:    "negative recommendation blocks verified",
			opinion: port.AdvisoryResult{RiskLevel: valueobject.RiskLevelLow, Recommendation: valueobject.RecommendationRejected, Confidence: 90},
			want:    valueobject.VerificationUnderReview,
		},
		{
			name:    "high advisory risk rejects",
			opinion: port.AdvisoryResult{RiskLevel: valueobject.RiskLevelHigh, Recommendation: valueobject.RecommendationReviewNeeded, Confidence: 90},
			want:    valueobject.VerificationRejected,
		},
		{
			name:    "low advisory confidence blocks verified",
			opinion: port.AdvisoryResult{RiskLevel: valueobject.RiskLevelLow, Recommendation: valueobject.RecommendationVerified, Confidence: 40},
			want:    valueobject.VerificationUnderReview,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVerifier(advisorFor(answering(tt.opinion), time.Second))
			res := v.Verify(context.Background(), document(valueobject.DocumentTypeSalarySlips, salarySlipText), testProfile())
			assert.Equal(t, tt.want, res.Status)
			assert.True(t, res.AdvisoryUsed)
		})
	}
}

func TestDocumentVerifier_AdvisoryAnomaliesArePrefixed(t *testing.T) {
	opinion := port.AdvisoryResult{
		Recommendation: valueobject.RecommendationReviewNeeded,
		Confidence:     75,
		Anomalies:      []model.Anomaly{{Type: "font_mismatch", Description: "two fonts", Severity: valueobject.SeverityMedium}},
	}
	v := newVerifier(advisorFor(answering(opinion), time.Second))

	res := v.Verify(context.Background(), document(valueobject.DocumentTypeSalarySlips, salarySlipText), testProfile())

	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, model.AdvisoryAnomalyPrefix+"FONT_MISMATCH", res.Anomalies[0].Type)
	assert.InDelta(t, 66.67, res.AnomalyScore, 0.01)
	assert.Equal(t, valueobject.VerificationUnderReview, res.Status)
}

func TestDocumentVerifier_AdvisoryFailureFallsBack(t *testing.T) {
	doc := document(valueobject.DocumentTypeSalarySlips, salarySlipText)
	baseline := newVerifier(nil).Verify(context.Background(), doc, testProfile())

	v := newVerifier(advisorFor(failing(errors.New("connection refused")), 50*time.Millisecond))
	res := v.Verify(context.Background(), doc, testProfile())

	assert.Equal(t, baseline, res)
}

func TestDocumentVerifier_PanicsOnInvalidProfile(t *testing.T) {
	p := testProfile()
	p.CIBILScore = 1200

	assert.Panics(t, func() {
		newVerifier(nil).Verify(context.Background(), document(valueobject.DocumentTypeSalarySlips, salarySlipText), p)
	})
}

func TestVerificationRules_Fallback(t *testing.T) {
	rules := service.DefaultVerificationRules()

	assert.Equal(t, service.VerificationRule{MinMatchScore: 80, MinConfidence: 80, MaxAnomalyScore: 10}, rules.For(valueobject.DocumentTypePANCard))
	assert.Equal(t, service.VerificationRule{MinMatchScore: 50, MinConfidence: 60, MaxAnomalyScore: 40}, rules.For(valueobject.DocumentType{}))
}

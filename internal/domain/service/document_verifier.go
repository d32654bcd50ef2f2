package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

const (
	// ReasonDocumentUnavailable is the reason given for absent or unreadable documents.
	ReasonDocumentUnavailable = "document not available for verification"

	rejectAnomalyScore = 70
	rejectMatchScore   = 20
)

// DocumentVerifier combines matching, anomaly detection and an optional
// advisory opinion into one verification result per document.
type DocumentVerifier struct {
	detector *AnomalyDetector
	matcher  *DocumentMatcher
	advisor  *BoundedAdvisor
	metrics  port.MetricsRecorder
	rules    VerificationRules
}

// NewDocumentVerifier creates a DocumentVerifier. advisor may be nil.
func NewDocumentVerifier(
	detector *AnomalyDetector,
	matcher *DocumentMatcher,
	advisor *BoundedAdvisor,
	rules VerificationRules,
	metrics port.MetricsRecorder,
) *DocumentVerifier {
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	return &DocumentVerifier{
		detector: detector,
		matcher:  matcher,
		advisor:  advisor,
		rules:    rules,
		metrics:  metrics,
	}
}

// Verify produces the verification result for doc. It always returns a
// complete result: absent or unreadable documents are REJECTED with zero
// scores, and advisory failures fall back to the deterministic path.
// It panics if profile fails validation.
func (v *DocumentVerifier) Verify(ctx context.Context, doc *model.DocumentRecord, profile model.ApplicantProfile) model.VerificationResult {
	profile.MustValidate()

	if !doc.Readable() {
		res := unavailableResult(doc)
		v.metrics.ObserveVerification(res.DocumentType.String(), res.Status.String())
		return res
	}

	match := v.matcher.Match(doc.ExtractedText, profile)
	anomalies := v.detector.Detect(doc.ExtractedText, doc.Type, profile)

	opinion, advised := v.advisor.Advise(ctx, port.AdvisoryInput{
		Purpose:           port.AdvisoryPurposeDocument,
		DocumentType:      doc.Type,
		Text:              doc.ExtractedText,
		ApplicantName:     profile.FullName(),
		MonthlyIncome:     profile.MonthlyIncome,
		LoanAmount:        profile.LoanAmount,
		PropertyValuation: profile.PropertyValuation,
	})
	if advised && len(opinion.Anomalies) > 0 {
		merged := append(append([]model.Anomaly(nil), anomalies.Anomalies...), advisoryAnomalies(opinion.Anomalies)...)
		anomalies = NewAnomalyReport(merged)
	}

	confidence := 0.5*match.Score + 0.5*(100-anomalies.Score)
	riskLevel := anomalies.RiskLevel
	if advised {
		confidence = model.ClampScore(opinion.Confidence)
		if !opinion.RiskLevel.IsZero() {
			riskLevel = riskLevel.Max(opinion.RiskLevel)
		}
	}

	model.MustBeScore("match", match.Score)
	model.MustBeScore("anomaly", anomalies.Score)
	model.MustBeScore("confidence", confidence)

	status, reason := v.decide(doc.Type, match.Score, confidence, anomalies, opinion, advised)
	if advised && opinion.Notes != "" {
		reason = reason + "; advisory: " + opinion.Notes
	}

	res := model.VerificationResult{
		DocumentID:      doc.ID,
		DocumentType:    doc.Type,
		Status:          status,
		RiskLevel:       riskLevel,
		Reason:          reason,
		Anomalies:       anomalies.Anomalies,
		MatchScore:      match.Score,
		AnomalyScore:    anomalies.Score,
		ConfidenceScore: confidence,
		Matches:         match.Matches,
		AdvisoryUsed:    advised,
	}
	v.metrics.ObserveVerification(res.DocumentType.String(), res.Status.String())
	return res
}

func (v *DocumentVerifier) decide(
	dt valueobject.DocumentType,
	matchScore, confidence float64,
	anomalies AnomalyReport,
	opinion port.AdvisoryResult,
	advised bool,
) (valueobject.VerificationStatus, string) {
	rule := v.rules.For(dt)
	highAnomaly := model.HasHighSeverity(anomalies.Anomalies)
	negative := advised && opinion.IsNegative()
	advisoryHigh := advised && (opinion.RiskLevel.Equal(valueobject.RiskLevelHigh) ||
		opinion.RiskLevel.Equal(valueobject.RiskLevelVeryHigh))

	if matchScore >= rule.MinMatchScore &&
		confidence >= rule.MinConfidence &&
		!highAnomaly &&
		anomalies.Score <= rule.MaxAnomalyScore &&
		!negative {
		return valueobject.VerificationVerified,
			fmt.Sprintf("document verified: match %.1f, confidence %.1f", matchScore, confidence)
	}

	var causes []string
	if anomalies.Score > rejectAnomalyScore {
		causes = append(causes, fmt.Sprintf("anomaly score %.1f", anomalies.Score))
	}
	if highAnomaly {
		causes = append(causes, "high severity anomaly "+firstHigh(anomalies.Anomalies))
	}
	if matchScore < rejectMatchScore {
		causes = append(causes, fmt.Sprintf("match score %.1f", matchScore))
	}
	if advisoryHigh {
		causes = append(causes, "advisory risk "+opinion.RiskLevel.String())
	}
	if len(causes) > 0 {
		return valueobject.VerificationRejected, "document rejected: " + strings.Join(causes, ", ")
	}

	return valueobject.VerificationUnderReview, fmt.Sprintf(
		"document requires manual review: match %.1f, confidence %.1f, anomaly %.1f",
		matchScore, confidence, anomalies.Score)
}

func unavailableResult(doc *model.DocumentRecord) model.VerificationResult {
	res := model.VerificationResult{
		Status:    valueobject.VerificationRejected,
		RiskLevel: valueobject.RiskLevelHigh,
		Reason:    ReasonDocumentUnavailable,
	}
	if doc != nil {
		res.DocumentID = doc.ID
		res.DocumentType = doc.Type
	}
	return res
}

// advisoryAnomalies tags advisory anomalies so they can be told apart from
// deterministic ones.
func advisoryAnomalies(in []model.Anomaly) []model.Anomaly {
	out := make([]model.Anomaly, 0, len(in))
	for _, a := range in {
		if !strings.HasPrefix(a.Type, model.AdvisoryAnomalyPrefix) {
			a.Type = model.AdvisoryAnomalyPrefix + strings.ToUpper(a.Type)
		}
		if a.Severity.String() == "" {
			a.Severity = valueobject.SeverityMedium
		}
		out = append(out, a)
	}
	return out
}

func firstHigh(anomalies []model.Anomaly) string {
	for _, a := range anomalies {
		if a.Severity.Equal(valueobject.SeverityHigh) {
			return a.Type
		}
	}
	return ""
}

package service

import (
	"fmt"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

const (
	missingDocumentRisk   = 100
	mostlyVerifiedRatio   = 0.7
	healthyDebtService    = 50
	acceptableDebtService = 60
)

// Verification summary weights.
const (
	SummaryWeightEmployment = 0.30
	SummaryWeightDocuments  = 0.40
	SummaryWeightNADocument = 0.30
)

// statusRisk is the risk contributed by one document in the given state.
var statusRisk = map[valueobject.VerificationStatus]float64{
	valueobject.VerificationVerified:    10,
	valueobject.VerificationUnderReview: 50,
	valueobject.VerificationRejected:    100,
	valueobject.VerificationPending:     80,
}

var statusReport = map[valueobject.VerificationStatus]model.ReportStatus{
	valueobject.VerificationVerified:    model.ReportVerified,
	valueobject.VerificationUnderReview: model.ReportUnderReview,
	valueobject.VerificationRejected:    model.ReportRejected,
	valueobject.VerificationPending:     model.ReportPending,
}

// BuildDocumentSetReport rolls the verification results up over the required
// document types. A missing type counts as MISSING with risk 100.
func BuildDocumentSetReport(results []model.VerificationResult) model.DocumentSetReport {
	report := model.DocumentSetReport{Entries: make([]model.DocumentSetEntry, 0, len(valueobject.RequiredDocumentTypes))}

	total, verified := 0.0, 0
	for _, dt := range valueobject.RequiredDocumentTypes {
		entry := model.DocumentSetEntry{DocumentType: dt}
		if res, ok := worstResult(results, dt); ok {
			entry.Status = statusReport[res.Status]
			entry.RiskScore = statusRisk[res.Status]
			if !res.Status.Equal(valueobject.VerificationVerified) {
				entry.Issues = append(entry.Issues, res.Reason)
			}
			for _, a := range res.Anomalies {
				entry.Issues = append(entry.Issues, a.Type)
			}
			if res.Status.Equal(valueobject.VerificationVerified) {
				verified++
			}
		} else {
			entry.Status = model.ReportMissing
			entry.RiskScore = missingDocumentRisk
			entry.Issues = []string{"Document not uploaded"}
		}
		if len(entry.Issues) > 0 {
			report.IssuesFound++
		}
		total += entry.RiskScore
		report.Entries = append(report.Entries, entry)
	}

	n := len(valueobject.RequiredDocumentTypes)
	report.OverallRiskScore = total / float64(n)
	switch {
	case verified == n:
		report.OverallStatus = model.ReportVerified
		report.Summary = "All documents verified successfully"
	case float64(verified) >= float64(n)*mostlyVerifiedRatio:
		report.OverallStatus = model.ReportVerifiedWithNotes
		report.Summary = "Most documents verified, minor issues found"
	default:
		report.OverallStatus = model.ReportPending
		report.Summary = "Multiple documents require verification"
	}
	return report
}

// SummarizeVerification computes the coarse employment/documents/NA
// aggregate. It is reported next to the RiskAssessment and never replaces it.
func SummarizeVerification(emp model.EmploymentReport, docs model.DocumentSetReport, na model.NAReport) model.VerificationSummary {
	overall := model.ClampScore(emp.RiskScore*SummaryWeightEmployment +
		docs.OverallRiskScore*SummaryWeightDocuments +
		na.RiskScore*SummaryWeightNADocument)

	s := model.VerificationSummary{
		OverallRiskScore: overall,
		Employment:       emp.RiskScore,
		Documents:        docs.OverallRiskScore,
		NADocument:       na.RiskScore,
	}
	switch {
	case overall <= 25:
		s.RiskLevel, s.RecommendedStatus = valueobject.RiskLevelVeryLow, model.ReportApproved
	case overall <= 50:
		s.RiskLevel, s.RecommendedStatus = valueobject.RiskLevelLow, model.ReportApproved
	case overall <= 75:
		s.RiskLevel, s.RecommendedStatus = valueobject.RiskLevelMedium, model.ReportUnderReview
	default:
		s.RiskLevel, s.RecommendedStatus = valueobject.RiskLevelHigh, model.ReportPending
	}
	s.Text = fmt.Sprintf("Overall risk: %s. Employment: %s, Documents: %s, NA Document: %s",
		s.RiskLevel, emp.Status, docs.OverallStatus, na.Status)
	return s
}

// AnalyzeBanking reports the applicant's debt servicing load.
func AnalyzeBanking(p model.ApplicantProfile) model.BankingAnalysis {
	dti := ExtractFeatures(p).DebtToIncome
	b := model.BankingAnalysis{DebtServiceRatio: dti, Status: "MODERATE", Recommendation: "REVIEW"}
	if dti <= healthyDebtService {
		b.Status = "HEALTHY"
	}
	if dti <= acceptableDebtService {
		b.Recommendation = "ACCEPTABLE"
	}
	return b
}

// worstResult returns the highest-risk result of the given type.
func worstResult(results []model.VerificationResult, dt valueobject.DocumentType) (model.VerificationResult, bool) {
	var (
		worst model.VerificationResult
		found bool
	)
	for _, r := range results {
		if !r.DocumentType.Equal(dt) {
			continue
		}
		if !found || statusRisk[r.Status] > statusRisk[worst.Status] {
			worst, found = r, true
		}
	}
	return worst, found
}

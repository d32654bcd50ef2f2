package model

import (
	"github.com/google/uuid"

	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// ReportStatus is the status vocabulary of the aggregate verification reports.
type ReportStatus string

const (
	ReportVerified          ReportStatus = "VERIFIED"
	ReportVerifiedWithNotes ReportStatus = "VERIFIED_WITH_NOTES"
	ReportReviewNeeded      ReportStatus = "REVIEW_NEEDED"
	ReportUnderReview       ReportStatus = "UNDER_REVIEW"
	ReportRejected          ReportStatus = "REJECTED"
	ReportPending           ReportStatus = "PENDING"
	ReportMissing           ReportStatus = "MISSING"
	ReportApproved          ReportStatus = "APPROVED"
)

// StepStatus is the outcome of one step of the NA declaration checklist.
type StepStatus string

const (
	StepPassed              StepStatus = "PASSED"
	StepFailed              StepStatus = "FAILED"
	StepWarning             StepStatus = "WARNING"
	StepPendingManualReview StepStatus = "PENDING_MANUAL_REVIEW"
)

// VerificationStep is one entry of a checklist-style verification.
type VerificationStep struct {
	Step    string     `json:"step"`
	Status  StepStatus `json:"status"`
	Details string     `json:"details"`
}

// NAReport is the checklist verification of the non-agricultural declaration.
type NAReport struct {
	Status     ReportStatus       `json:"status"`
	Details    string             `json:"details"`
	Issues     []string           `json:"issues"`
	Steps      []VerificationStep `json:"steps"`
	RiskScore  float64            `json:"risk_score"`
	DocumentID uuid.UUID          `json:"document_id"`
}

// EmploymentReport is the outcome of checking the claimed employer.
type EmploymentReport struct {
	Status         valueobject.VerificationStatus `json:"status"`
	Notes          []string                       `json:"notes"`
	RiskScore      float64                        `json:"risk_score"`
	DirectoryMatch bool                           `json:"directory_match"`
}

// DocumentSetEntry is the per-type line of a DocumentSetReport.
type DocumentSetEntry struct {
	DocumentType valueobject.DocumentType `json:"document_type"`
	Status       ReportStatus             `json:"status"`
	Issues       []string                 `json:"issues"`
	RiskScore    float64                  `json:"risk_score"`
}

// DocumentSetReport rolls the required document set up into one status.
type DocumentSetReport struct {
	OverallStatus    ReportStatus       `json:"overall_status"`
	Summary          string             `json:"summary"`
	Entries          []DocumentSetEntry `json:"entries"`
	OverallRiskScore float64            `json:"overall_risk_score"`
	IssuesFound      int                `json:"issues_found"`
}

// VerificationSummary is the coarse employment/documents/NA aggregate. It is
// reported alongside the RiskAssessment and never replaces it.
type VerificationSummary struct {
	RiskLevel         valueobject.RiskLevel `json:"risk_level"`
	RecommendedStatus ReportStatus          `json:"recommended_status"`
	Text              string                `json:"text"`
	OverallRiskScore  float64               `json:"overall_risk_score"`
	Employment        float64               `json:"employment"`
	Documents         float64               `json:"documents"`
	NADocument        float64               `json:"na_document"`
}

// BankingAnalysis summarises the applicant's debt servicing load.
type BankingAnalysis struct {
	Status           string  `json:"status"`
	Recommendation   string  `json:"recommendation"`
	DebtServiceRatio float64 `json:"debt_service_ratio"`
}

// ApplicationReport is everything one run of the pipeline produces.
type ApplicationReport struct {
	Verifications []VerificationResult `json:"verifications"`
	Schedule      []AmortizationEntry  `json:"schedule,omitempty"`
	Employment    EmploymentReport     `json:"employment"`
	NADocument    NAReport             `json:"na_document"`
	DocumentSet   DocumentSetReport    `json:"document_set"`
	Summary       VerificationSummary  `json:"summary"`
	Banking       BankingAnalysis      `json:"banking"`
	Assessment    RiskAssessment       `json:"assessment"`
	Decision      DecisionResult       `json:"decision"`
}

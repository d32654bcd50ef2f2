package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// Applicant is the wire form of an applicant profile.
type Applicant struct {
	ApplicationID       string          `json:"application_id"`
	FirstName           string          `json:"first_name"`
	LastName            string          `json:"last_name"`
	PANNumber           string          `json:"pan_number"`
	AadhaarNumber       string          `json:"aadhaar_number"`
	CompanyName         string          `json:"company_name"`
	EmploymentType      string          `json:"employment_type"`
	MonthlyIncome       decimal.Decimal `json:"monthly_income"`
	ExistingEMI         decimal.Decimal `json:"existing_emi"`
	LoanAmount          decimal.Decimal `json:"loan_amount"`
	PropertyValuation   decimal.Decimal `json:"property_valuation"`
	ExperienceYears     int             `json:"experience_years"`
	CIBILScore          int             `json:"cibil_score"`
	IsNonAgricultural   bool            `json:"is_non_agricultural"`
	HasExistingMortgage bool            `json:"has_existing_mortgage"`
}

// Profile converts and validates the applicant. Errors wrap model.ErrInvalidProfile.
func (a Applicant) Profile() (model.ApplicantProfile, error) {
	id, err := uuid.Parse(a.ApplicationID)
	if err != nil {
		return model.ApplicantProfile{}, fmt.Errorf("%w: application id: %w", model.ErrInvalidProfile, err)
	}
	if id == uuid.Nil {
		return model.ApplicantProfile{}, fmt.Errorf("%w: application id is required", model.ErrInvalidProfile)
	}
	p := model.ApplicantProfile{
		ApplicationID:       id,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		PANNumber:           a.PANNumber,
		AadhaarNumber:       a.AadhaarNumber,
		CompanyName:         a.CompanyName,
		EmploymentType:      a.EmploymentType,
		MonthlyIncome:       a.MonthlyIncome,
		ExistingEMI:         a.ExistingEMI,
		LoanAmount:          a.LoanAmount,
		PropertyValuation:   a.PropertyValuation,
		ExperienceYears:     a.ExperienceYears,
		CIBILScore:          a.CIBILScore,
		IsNonAgricultural:   a.IsNonAgricultural,
		HasExistingMortgage: a.HasExistingMortgage,
	}
	if err := p.Validate(); err != nil {
		return model.ApplicantProfile{}, err
	}
	return p, nil
}

// Document is the wire form of an uploaded document with its extracted text.
// ExtractionFailed marks a file the text extractor could not read.
type Document struct {
	DocumentID       string `json:"document_id"`
	DocumentType     string `json:"document_type"`
	Filename         string `json:"filename"`
	ExtractedText    string `json:"extracted_text"`
	SizeBytes        int64  `json:"size_bytes"`
	ExtractionFailed bool   `json:"extraction_failed"`
}

// Record converts the document. A missing id is generated.
func (d Document) Record() (*model.DocumentRecord, error) {
	id := uuid.New()
	if d.DocumentID != "" {
		parsed, err := uuid.Parse(d.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("document id: %w", err)
		}
		id = parsed
	}
	dt, err := valueobject.DocumentTypeFromString(d.DocumentType)
	if err != nil {
		return nil, err
	}
	return &model.DocumentRecord{
		ID:            id,
		Type:          dt,
		Filename:      d.Filename,
		ExtractedText: d.ExtractedText,
		SizeBytes:     d.SizeBytes,
		Extracted:     !d.ExtractionFailed,
	}, nil
}

// VerifyDocumentRequest asks for the verification of one document.
type VerifyDocumentRequest struct {
	Document  *Document `json:"document"`
	Applicant Applicant `json:"applicant"`
}

// AssessApplicationRequest runs the full pipeline. Null entries in Documents
// stand for documents that were expected but never uploaded.
type AssessApplicationRequest struct {
	Documents []*Document `json:"documents"`
	Applicant Applicant   `json:"applicant"`
}

// AssessRiskRequest scores previously computed verification results.
type AssessRiskRequest struct {
	Verifications []model.VerificationResult `json:"verifications"`
	Applicant     Applicant                  `json:"applicant"`
}

// DecideRequest turns an assessment into a decision.
type DecideRequest struct {
	Applicant  Applicant            `json:"applicant"`
	Assessment model.RiskAssessment `json:"assessment"`
}

// BuildScheduleRequest describes a loan to amortize. A zero EMI is computed.
type BuildScheduleRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	EMI          decimal.Decimal `json:"emi"`
	Months       int             `json:"months"`
}

// GetDecisionRequest identifies a stored decision by application.
type GetDecisionRequest struct {
	ApplicationID string `json:"application_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleResponse is a computed repayment schedule with its totals.
type ScheduleResponse struct {
	EMI           decimal.Decimal           `json:"emi"`
	TotalInterest decimal.Decimal           `json:"total_interest"`
	TotalPayment  decimal.Decimal           `json:"total_payment"`
	Entries       []model.AmortizationEntry `json:"entries"`
}

// AssessApplicationResponse is the pipeline report together with the
// identity of the stored decision record.
type AssessApplicationResponse struct {
	Report        model.ApplicationReport `json:"report"`
	Version       int                     `json:"version"`
	DecisionID    uuid.UUID               `json:"decision_id"`
	ApplicationID uuid.UUID               `json:"application_id"`
}

// DecisionResponse is the external representation of a stored decision.
type DecisionResponse struct {
	DecidedAt     time.Time                  `json:"decided_at"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
	Verifications []model.VerificationResult `json:"verifications"`
	Schedule      []model.AmortizationEntry  `json:"schedule,omitempty"`
	Summary       model.VerificationSummary  `json:"summary"`
	Decision      model.DecisionResult       `json:"decision"`
	Assessment    model.RiskAssessment       `json:"assessment"`
	Version       int                        `json:"version"`
	DecisionID    uuid.UUID                  `json:"decision_id"`
	ApplicationID uuid.UUID                  `json:"application_id"`
}

// FromLoanDecision maps the aggregate to its response.
func FromLoanDecision(d *model.LoanDecision) DecisionResponse {
	return DecisionResponse{
		DecisionID:    d.ID(),
		ApplicationID: d.ApplicationID(),
		Version:       d.Version(),
		Verifications: d.Verifications(),
		Assessment:    d.Assessment(),
		Decision:      d.Decision(),
		Summary:       d.Summary(),
		Schedule:      d.Schedule(),
		DecidedAt:     d.DecidedAt(),
		CreatedAt:     d.CreatedAt(),
		UpdatedAt:     d.UpdatedAt(),
	}
}

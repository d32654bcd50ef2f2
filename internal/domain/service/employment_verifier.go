package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// Employment risk scores.
const (
	employmentRiskDirectoryMatch    = 10
	employmentRiskDirectoryMismatch = 40
	employmentRiskSlipVerified      = 30
	employmentRiskSlipReview        = 50
	employmentRiskSlipRejected      = 80
	employmentRiskNoEvidence        = 70
)

// EmploymentVerifier checks the claimed employer against the employer
// directory, falling back to the salary slip verification.
type EmploymentVerifier struct {
	directory port.EmployerDirectory
}

// NewEmploymentVerifier creates an EmploymentVerifier. A nil directory
// behaves as an empty one.
func NewEmploymentVerifier(directory port.EmployerDirectory) *EmploymentVerifier {
	return &EmploymentVerifier{directory: directory}
}

// Verify returns the employment report. salarySlip is the verification of the
// applicant's salary slip, or nil when none was uploaded.
func (v *EmploymentVerifier) Verify(p model.ApplicantProfile, salarySlip *model.VerificationResult) model.EmploymentReport {
	if rec, ok := v.lookup(p.PANNumber); ok {
		notes := directoryMismatches(rec, p)
		if len(notes) == 0 {
			return model.EmploymentReport{
				Status:         valueobject.VerificationVerified,
				RiskScore:      employmentRiskDirectoryMatch,
				DirectoryMatch: true,
				Notes:          []string{"employer directory record matches application"},
			}
		}
		return model.EmploymentReport{
			Status:         valueobject.VerificationUnderReview,
			RiskScore:      employmentRiskDirectoryMismatch,
			DirectoryMatch: true,
			Notes:          notes,
		}
	}

	if salarySlip == nil {
		return model.EmploymentReport{
			Status:    valueobject.VerificationPending,
			RiskScore: employmentRiskNoEvidence,
			Notes:     []string{"no employer directory record and no salary slip"},
		}
	}

	switch salarySlip.Status {
	case valueobject.VerificationVerified:
		return model.EmploymentReport{
			Status:    valueobject.VerificationVerified,
			RiskScore: employmentRiskSlipVerified,
			Notes:     []string{"employment inferred from verified salary slip"},
		}
	case valueobject.VerificationRejected:
		return model.EmploymentReport{
			Status:    valueobject.VerificationRejected,
			RiskScore: employmentRiskSlipRejected,
			Notes:     []string{"salary slip rejected: " + salarySlip.Reason},
		}
	default:
		return model.EmploymentReport{
			Status:    valueobject.VerificationUnderReview,
			RiskScore: employmentRiskSlipReview,
			Notes:     []string{"salary slip requires review"},
		}
	}
}

func (v *EmploymentVerifier) lookup(pan string) (port.EmployerRecord, bool) {
	key := strings.ToUpper(strings.TrimSpace(pan))
	if v == nil || v.directory == nil || key == "" {
		return port.EmployerRecord{}, false
	}
	return v.directory.Lookup(key)
}

func directoryMismatches(rec port.EmployerRecord, p model.ApplicantProfile) []string {
	var notes []string
	if rec.EmployeeName != "" && !strings.EqualFold(strings.TrimSpace(rec.EmployeeName), p.FullName()) {
		notes = append(notes, "employee name differs from directory record")
	}
	if rec.CompanyName != "" && !strings.EqualFold(strings.TrimSpace(rec.CompanyName), strings.TrimSpace(p.CompanyName)) {
		notes = append(notes, "company differs from directory record")
	}
	if rec.MonthlySalary.IsPositive() {
		tolerance := rec.MonthlySalary.Mul(decimal.NewFromFloat(salaryTolerance))
		if p.MonthlyIncome.Sub(rec.MonthlySalary).Abs().GreaterThan(tolerance) {
			notes = append(notes, "claimed income differs from directory salary by more than 30%")
		}
	}
	return notes
}

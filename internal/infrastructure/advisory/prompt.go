package advisory

import (
	"fmt"
	"strings"

	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/pkg/money"
)

// maxExcerpt bounds the document text sent to the model.
const maxExcerpt = 2000

func buildPrompt(in port.AdvisoryInput) string {
	if in.Purpose == port.AdvisoryPurposeApplication {
		return applicationPrompt(in)
	}
	return documentPrompt(in)
}

func documentPrompt(in port.AdvisoryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s document for loan application verification.\n\n", in.DocumentType)
	fmt.Fprintf(&b, "Document content excerpt:\n%s\n\n", excerpt(in.Text))
	b.WriteString("Application details:\n")
	fmt.Fprintf(&b, "- Applicant: %s\n", in.ApplicantName)
	fmt.Fprintf(&b, "- Loan amount: %s\n", money.Format(in.LoanAmount))
	fmt.Fprintf(&b, "- Monthly salary: %s\n", money.Format(in.MonthlyIncome))
	fmt.Fprintf(&b, "- Property value: %s\n\n", money.Format(in.PropertyValuation))
	b.WriteString(`Assess document authenticity, red flags, consistency with the application
and your confidence. Respond with one JSON object only:
{
  "risk_level": "LOW|MEDIUM|HIGH",
  "confidence_score": 0-100,
  "risk_factors": ["..."],
  "verification_notes": "...",
  "recommendation": "VERIFIED|REJECTED|REVIEW_NEEDED",
  "anomalies_found": [{"type": "...", "description": "...", "severity": "HIGH|MEDIUM|LOW"}]
}
`)
	return b.String()
}

func applicationPrompt(in port.AdvisoryInput) string {
	var b strings.Builder
	b.WriteString("Act as a senior loan risk analyst and assess this home loan application.\n\n")
	fmt.Fprintf(&b, "- Applicant: %s\n", in.ApplicantName)
	fmt.Fprintf(&b, "- Monthly salary: %s\n", money.Format(in.MonthlyIncome))
	fmt.Fprintf(&b, "- Loan amount: %s\n", money.Format(in.LoanAmount))
	fmt.Fprintf(&b, "- Property value: %s\n", money.Format(in.PropertyValuation))
	fmt.Fprintf(&b, "- CIBIL score: %d\n", in.CIBILScore)
	fmt.Fprintf(&b, "- Debt to income: %.1f%%\n", in.Features.DebtToIncome)
	fmt.Fprintf(&b, "- Loan to value: %.1f%%\n\n", in.Features.LoanToValue)
	b.WriteString(`Consider income adequacy, credit quality, employment stability and
collateral. Respond with one JSON object only:
{
  "risk_level": "VERY_LOW|LOW|MEDIUM|HIGH|VERY_HIGH",
  "risk_score": 0-100,
  "confidence_score": 0-100,
  "risk_factors": ["..."],
  "verification_notes": "...",
  "recommendation": "APPROVE|REJECT|REVIEW_NEEDED"
}
`)
	return b.String()
}

func excerpt(text string) string {
	r := []rune(text)
	if len(r) <= maxExcerpt {
		return text
	}
	return string(r[:maxExcerpt])
}

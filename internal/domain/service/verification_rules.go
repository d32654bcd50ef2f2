package service

import "github.com/bibbank/loanrisk/internal/domain/valueobject"

// VerificationRule is the per-document-type threshold triple a document must
// clear to be VERIFIED.
type VerificationRule struct {
	MinMatchScore   float64
	MinConfidence   float64
	MaxAnomalyScore float64
}

// VerificationRules maps document types to their thresholds.
type VerificationRules struct {
	byType   map[valueobject.DocumentType]VerificationRule
	fallback VerificationRule
}

// NewVerificationRules builds a rule table. Types without an entry use fallback.
func NewVerificationRules(byType map[valueobject.DocumentType]VerificationRule, fallback VerificationRule) VerificationRules {
	copied := make(map[valueobject.DocumentType]VerificationRule, len(byType))
	for k, v := range byType {
		copied[k] = v
	}
	return VerificationRules{byType: copied, fallback: fallback}
}

// DefaultVerificationRules returns the standard table. Identity documents are
// the strictest; free-text bank statements the loosest.
func DefaultVerificationRules() VerificationRules {
	return NewVerificationRules(map[valueobject.DocumentType]VerificationRule{
		valueobject.DocumentTypeBankStatements:    {MinMatchScore: 40, MinConfidence: 60, MaxAnomalyScore: 30},
		valueobject.DocumentTypeSalarySlips:       {MinMatchScore: 60, MinConfidence: 70, MaxAnomalyScore: 20},
		valueobject.DocumentTypePANCard:           {MinMatchScore: 80, MinConfidence: 80, MaxAnomalyScore: 10},
		valueobject.DocumentTypeAadhaar:           {MinMatchScore: 80, MinConfidence: 80, MaxAnomalyScore: 10},
		valueobject.DocumentTypeKYCDocs:           {MinMatchScore: 70, MinConfidence: 70, MaxAnomalyScore: 25},
		valueobject.DocumentTypePropertyValuation: {MinMatchScore: 50, MinConfidence: 60, MaxAnomalyScore: 40},
		valueobject.DocumentTypeLegalClearance:    {MinMatchScore: 60, MinConfidence: 65, MaxAnomalyScore: 35},
		valueobject.DocumentTypeNonAgricultural:   {MinMatchScore: 50, MinConfidence: 60, MaxAnomalyScore: 45},
	}, VerificationRule{MinMatchScore: 50, MinConfidence: 60, MaxAnomalyScore: 40})
}

// For returns the rule for a document type.
func (r VerificationRules) For(dt valueobject.DocumentType) VerificationRule {
	if rule, ok := r.byType[dt]; ok {
		return rule
	}
	return r.fallback
}

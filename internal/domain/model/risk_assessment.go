package model

import "github.com/bibbank/loanrisk/internal/domain/valueobject"

// RiskAssessment is the weighted risk view of one application. It is a pure
// function of the profile and verification results it was computed from and
// carries no timestamps, so identical inputs marshal to identical bytes.
type RiskAssessment struct {
	RiskLevel        valueobject.RiskLevel `json:"risk_level"`
	Employment       float64               `json:"employment"`
	Documents        float64               `json:"documents"`
	Financial        float64               `json:"financial"`
	Fraud            float64               `json:"fraud"`
	Advisory         float64               `json:"advisory"`
	OverallRiskScore float64               `json:"overall_risk_score"`
}

// CheckInvariants panics if any score is outside [0,100].
func (a RiskAssessment) CheckInvariants() {
	MustBeScore("employment", a.Employment)
	MustBeScore("documents", a.Documents)
	MustBeScore("financial", a.Financial)
	MustBeScore("fraud", a.Fraud)
	MustBeScore("advisory", a.Advisory)
	MustBeScore("overall", a.OverallRiskScore)
}

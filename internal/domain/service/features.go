package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
)

var (
	hundred = decimal.NewFromInt(100)
	lakh    = decimal.NewFromInt(100_000)
)

// ExtractFeatures derives the normalised ratios used by every scorer.
//
// Degenerate denominators never fail: a non-positive income or property
// valuation yields 100 (worst case) for the corresponding ratio, and a
// non-positive loan amount yields a salary adequacy of 0.
func ExtractFeatures(p model.ApplicantProfile) model.Features {
	f := model.Features{DebtToIncome: 100, LoanToValue: 100}

	if p.MonthlyIncome.IsPositive() {
		f.DebtToIncome = p.ExistingEMI.Div(p.MonthlyIncome).Mul(hundred).InexactFloat64()
	}
	if p.PropertyValuation.IsPositive() {
		f.LoanToValue = p.LoanAmount.Div(p.PropertyValuation).Mul(hundred).InexactFloat64()
	}
	if p.LoanAmount.IsPositive() {
		f.SalaryAdequacy = p.MonthlyIncome.Div(p.LoanAmount.Div(lakh)).InexactFloat64()
	}
	return f
}

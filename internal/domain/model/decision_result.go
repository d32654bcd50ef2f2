package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// DecisionResult is the terminal output of one decision cycle. Rejected
// decisions carry zero rate, term and amounts.
type DecisionResult struct {
	Status        valueobject.DecisionStatus `json:"status"`
	Reason        string                     `json:"reason"`
	InterestRate  decimal.Decimal            `json:"interest_rate"`
	EMIAmount     decimal.Decimal            `json:"emi_amount"`
	TotalInterest decimal.Decimal            `json:"total_interest"`
	TotalPayment  decimal.Decimal            `json:"total_payment"`
	LoanTermYears int                        `json:"loan_term_years"`
}

// TermMonths returns the loan term in months.
func (d DecisionResult) TermMonths() int {
	return d.LoanTermYears * 12
}

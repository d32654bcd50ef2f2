package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
)

// AmortizationCalculator builds repayment schedules starting from the
// current date.
type AmortizationCalculator struct {
	now func() time.Time
}

// NewAmortizationCalculator creates a calculator. A nil clock uses time.Now.
func NewAmortizationCalculator(now func() time.Time) *AmortizationCalculator {
	if now == nil {
		now = time.Now
	}
	return &AmortizationCalculator{now: now}
}

// EMI returns the equated monthly installment.
func (c *AmortizationCalculator) EMI(principal, annualRatePct decimal.Decimal, months int) decimal.Decimal {
	return model.CalculateEMI(principal, annualRatePct, months)
}

// BuildSchedule returns the schedule with the first installment due one
// month from today. A zero emi is computed from the other inputs.
func (c *AmortizationCalculator) BuildSchedule(principal, annualRatePct decimal.Decimal, months int, emi decimal.Decimal) []model.AmortizationEntry {
	now := c.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return model.BuildSchedule(principal, annualRatePct, months, emi, start)
}

package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	monthsYear = decimal.NewFromInt(12)
)

// AmortizationEntry is one month of a repayment schedule.
type AmortizationEntry struct {
	DueDate            time.Time       `json:"due_date"`
	EMI                decimal.Decimal `json:"emi"`
	PrincipalComponent decimal.Decimal `json:"principal_component"`
	InterestComponent  decimal.Decimal `json:"interest_component"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
	Month              int             `json:"month"`
}

// MonthlyRate converts an annual percentage rate (e.g. 8.0) to a monthly fraction.
func MonthlyRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.Div(monthsYear).Div(hundred)
}

// CalculateEMI computes the equated monthly installment for a reducing-balance loan.
//
//	r   = annualRatePct / 12 / 100
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)     rounded to 2 dp
//	EMI = P / n                              when r == 0 (not rounded)
func CalculateEMI(principal, annualRatePct decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	r := MonthlyRate(annualRatePct)
	if r.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months)))
	}

	// The power term is computed in float64 and the result brought back to decimal.
	rf := r.InexactFloat64()
	factor := math.Pow(1+rf, float64(months))
	emi := principal.InexactFloat64() * rf * factor / (factor - 1)
	return decimal.NewFromFloat(emi).Round(2)
}

// TotalPayment is EMI * months rounded to 2 dp.
func TotalPayment(principal, annualRatePct decimal.Decimal, months int) decimal.Decimal {
	emi := CalculateEMI(principal, annualRatePct, months)
	return emi.Mul(decimal.NewFromInt(int64(months))).Round(2)
}

// TotalInterest is EMI * months - principal rounded to 2 dp.
func TotalInterest(principal, annualRatePct decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	return TotalPayment(principal, annualRatePct, months).Sub(principal).Round(2)
}

// BuildSchedule generates the month-by-month schedule for a loan repaid with
// the given EMI. A zero EMI is replaced by CalculateEMI. The first payment is
// due one month after startDate.
//
// The final month pays off whatever balance is left, so the schedule always
// terminates at exactly zero regardless of rounding drift.
func BuildSchedule(
	principal decimal.Decimal,
	annualRatePct decimal.Decimal,
	months int,
	emi decimal.Decimal,
	startDate time.Time,
) []AmortizationEntry {
	if months <= 0 || !principal.IsPositive() {
		return nil
	}
	if !emi.IsPositive() {
		emi = CalculateEMI(principal, annualRatePct, months)
	}

	r := MonthlyRate(annualRatePct)
	schedule := make([]AmortizationEntry, 0, months)
	balance := principal

	for month := 1; month <= months; month++ {
		interest := balance.Mul(r).Round(2)
		payment := emi
		principalPart := payment.Sub(interest).Round(2)

		if month == months {
			principalPart = balance
			payment = principalPart.Add(interest)
		} else if principalPart.GreaterThan(balance) {
			principalPart = balance
			payment = principalPart.Add(interest)
		}
		if principalPart.IsNegative() {
			principalPart = decimal.Zero
		}

		balance = balance.Sub(principalPart)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		schedule = append(schedule, AmortizationEntry{
			Month:              month,
			DueDate:            AddMonths(startDate, month),
			EMI:                payment,
			PrincipalComponent: principalPart,
			InterestComponent:  interest,
			RemainingBalance:   balance,
		})
	}

	return schedule
}

// AddMonths moves t forward by n calendar months, clamping the day to the
// last day of the target month (Jan 31 + 1 month is Feb 28).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(d, last)-1)
}

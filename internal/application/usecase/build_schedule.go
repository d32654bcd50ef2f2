package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

// MaxScheduleMonths bounds requested schedules to a 50 year term.
const MaxScheduleMonths = 600

// BuildScheduleUseCase computes a repayment schedule for arbitrary terms.
type BuildScheduleUseCase struct {
	amortization *service.AmortizationCalculator
}

// NewBuildScheduleUseCase wires dependencies.
func NewBuildScheduleUseCase(amortization *service.AmortizationCalculator) *BuildScheduleUseCase {
	return &BuildScheduleUseCase{amortization: amortization}
}

// Execute returns the schedule and its totals. Totals are EMI·n and EMI·n − P,
// rounded to two places.
func (uc *BuildScheduleUseCase) Execute(ctx context.Context, req dto.BuildScheduleRequest) (_ dto.ScheduleResponse, err error) {
	_, span := startSpan(ctx, "BuildSchedule")
	defer func() { endSpan(span, err) }()

	switch {
	case !req.Principal.IsPositive():
		return dto.ScheduleResponse{}, fmt.Errorf("%w: principal must be positive", ErrInvalidRequest)
	case req.InterestRate.IsNegative():
		return dto.ScheduleResponse{}, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidRequest)
	case req.Months <= 0 || req.Months > MaxScheduleMonths:
		return dto.ScheduleResponse{}, fmt.Errorf("%w: months must be in [1, %d]", ErrInvalidRequest, MaxScheduleMonths)
	case req.EMI.IsNegative():
		return dto.ScheduleResponse{}, fmt.Errorf("%w: emi must not be negative", ErrInvalidRequest)
	}

	emi := req.EMI
	if emi.IsZero() {
		emi = uc.amortization.EMI(req.Principal, req.InterestRate, req.Months)
	}
	total := emi.Mul(decimal.NewFromInt(int64(req.Months))).Round(2)

	span.SetAttributes(attribute.Int("schedule.months", req.Months))
	return dto.ScheduleResponse{
		EMI:           emi,
		TotalPayment:  total,
		TotalInterest: total.Sub(req.Principal).Round(2),
		Entries:       uc.amortization.BuildSchedule(req.Principal, req.InterestRate, req.Months, emi),
	}, nil
}

package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

var fixedNow = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() model.ApplicantProfile {
	return model.ApplicantProfile{
		ApplicationID:     uuid.MustParse("6f1c2d3e-4b5a-4c6d-8e7f-901a2b3c4d5e"),
		FirstName:         "Asha",
		LastName:          "Verma",
		PANNumber:         "ABCDE1234F",
		AadhaarNumber:     "1234 5678 9012",
		CompanyName:       "Infosys Limited",
		MonthlyIncome:     decimal.NewFromInt(52_340),
		ExistingEMI:       decimal.NewFromInt(8_000),
		LoanAmount:        decimal.NewFromInt(2_500_000),
		PropertyValuation: decimal.NewFromInt(5_000_000),
		CIBILScore:        780,
		IsNonAgricultural: true,
	}
}

const salarySlipText = `Salary Slip for March 2026
Employee Name: Asha Verma
Employer: Infosys Limited
PAN: ABCDE1234F
Earnings include Basic, HRA and PF contributions
Gross Salary ₹56,108
Net Salary ₹52,340`

const salarySlipNoPANText = `Salary Slip for March 2026
Employee Name: Asha Verma
Employer: Infosys Limited
Earnings include Basic, HRA and PF contributions
Gross Salary ₹56,108
Net Salary ₹52,340`

func document(dt valueobject.DocumentType, text string) *model.DocumentRecord {
	return &model.DocumentRecord{
		ID:            uuid.New(),
		Type:          dt,
		Filename:      dt.String() + ".pdf",
		ExtractedText: text,
		SizeBytes:     120_000,
		Extracted:     true,
	}
}

func newVerifier(advisor *service.BoundedAdvisor) *service.DocumentVerifier {
	return service.NewDocumentVerifier(
		service.NewAnomalyDetector(clock),
		service.NewDocumentMatcher(),
		advisor,
		service.DefaultVerificationRules(),
		nil,
	)
}

// fakeScorer is a scripted AdvisoryScorer.
type fakeScorer struct {
	score func(ctx context.Context, in port.AdvisoryInput) (port.AdvisoryResult, error)
	calls atomic.Int32
}

func (f *fakeScorer) Score(ctx context.Context, in port.AdvisoryInput) (port.AdvisoryResult, error) {
	f.calls.Add(1)
	return f.score(ctx, in)
}

func answering(res port.AdvisoryResult) *fakeScorer {
	return &fakeScorer{score: func(context.Context, port.AdvisoryInput) (port.AdvisoryResult, error) {
		return res, nil
	}}
}

func failing(err error) *fakeScorer {
	return &fakeScorer{score: func(context.Context, port.AdvisoryInput) (port.AdvisoryResult, error) {
		return port.AdvisoryResult{}, err
	}}
}

func advisorFor(scorer port.AdvisoryScorer, timeout time.Duration) *service.BoundedAdvisor {
	return service.NewBoundedAdvisor(scorer, service.AdvisorConfig{
		Timeout:     timeout,
		Backoff:     time.Millisecond,
		MaxAttempts: 2,
	}, nil, quietLogger())
}

// mapDirectory is an in-memory EmployerDirectory.
type mapDirectory map[string]port.EmployerRecord

func (d mapDirectory) Lookup(key string) (port.EmployerRecord, bool) {
	rec, ok := d[key]
	return rec, ok
}

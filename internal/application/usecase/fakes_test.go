package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/pkg/events"
)

var fixedNow = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const applicationID = "6f1c2d3e-4b5a-4c6d-8e7f-901a2b3c4d5e"

func testApplicant() dto.Applicant {
	return dto.Applicant{
		ApplicationID:     applicationID,
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

func salarySlip() *dto.Document {
	return &dto.Document{
		DocumentType:  "SALARY_SLIPS",
		Filename:      "salary_slip.pdf",
		ExtractedText: salarySlipText,
		SizeBytes:     120_000,
	}
}

type services struct {
	verifier *service.DocumentVerifier
	scorer   *service.RiskScorer
	decider  *service.DecisionEngine
	amort    *service.AmortizationCalculator
	engine   *service.Engine
}

func newServices(t *testing.T) services {
	t.Helper()
	verifier := service.NewDocumentVerifier(
		service.NewAnomalyDetector(clock),
		service.NewDocumentMatcher(),
		nil,
		service.DefaultVerificationRules(),
		nil,
	)
	employment := service.NewEmploymentVerifier(nil)
	scorer, err := service.NewRiskScorer(employment, service.DefaultRiskWeights())
	require.NoError(t, err)
	decider, err := service.NewDecisionEngine(service.DefaultDecisionPolicy())
	require.NoError(t, err)
	amort := service.NewAmortizationCalculator(clock)

	return services{
		verifier: verifier,
		scorer:   scorer,
		decider:  decider,
		amort:    amort,
		engine: service.NewEngine(service.EngineDeps{
			Verifier:     verifier,
			Employment:   employment,
			Scorer:       scorer,
			Decider:      decider,
			Amortization: amort,
			Logger:       quietLogger(),
		}),
	}
}

// memRepo is an in-memory DecisionRepository with the same version check as
// the Postgres adapter.
type memRepo struct {
	mu       sync.Mutex
	byApp    map[uuid.UUID]*model.LoanDecision
	versions map[uuid.UUID]int
	findErr  error
	saveErr  error
	saves    int
}

func newMemRepo() *memRepo {
	return &memRepo{byApp: map[uuid.UUID]*model.LoanDecision{}, versions: map[uuid.UUID]int{}}
}

func (r *memRepo) Save(_ context.Context, d *model.LoanDecision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if stored, ok := r.byApp[d.ApplicationID()]; ok {
		if stored.ID() != d.ID() || r.versions[d.ApplicationID()] != d.Version()-1 {
			return port.ErrDecisionConflict
		}
	}
	r.byApp[d.ApplicationID()] = d
	r.versions[d.ApplicationID()] = d.Version()
	r.saves++
	return nil
}

func (r *memRepo) FindByApplicationID(_ context.Context, id uuid.UUID) (*model.LoanDecision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	d, ok := r.byApp[id]
	if !ok {
		return nil, port.ErrDecisionNotFound
	}
	return d, nil
}

type fakePublisher struct {
	err       error
	published []events.DomainEvent
}

func (p *fakePublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evts...)
	return nil
}

type decisionObservation struct {
	status, riskLevel string
	score             float64
}

type fakeMetrics struct {
	port.NopMetrics
	decisions []decisionObservation
}

func (m *fakeMetrics) ObserveDecision(status, riskLevel string, score float64) {
	m.decisions = append(m.decisions, decisionObservation{status, riskLevel, score})
}

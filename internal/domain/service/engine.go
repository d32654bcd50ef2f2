package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// EngineDeps are the collaborators of the Engine. Concurrency caps parallel
// document verifications; zero or less means one goroutine per document.
type EngineDeps struct {
	Verifier     *DocumentVerifier
	Employment   *EmploymentVerifier
	Scorer       *RiskScorer
	Decider      *DecisionEngine
	Amortization *AmortizationCalculator
	Advisor      *BoundedAdvisor
	Logger       *slog.Logger
	Concurrency  int
}

// Engine runs the full pipeline for one application: documents are verified
// in parallel, then joined before scoring and deciding.
type Engine struct {
	verifier     *DocumentVerifier
	employment   *EmploymentVerifier
	scorer       *RiskScorer
	decider      *DecisionEngine
	amortization *AmortizationCalculator
	advisor      *BoundedAdvisor
	logger       *slog.Logger
	na           NADocumentVerifier
	concurrency  int
}

// NewEngine creates an Engine.
func NewEngine(d EngineDeps) *Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		verifier:     d.Verifier,
		employment:   d.Employment,
		scorer:       d.Scorer,
		decider:      d.Decider,
		amortization: d.Amortization,
		advisor:      d.Advisor,
		logger:       logger,
		concurrency:  d.Concurrency,
	}
}

// Run verifies every document, then produces the reports, the assessment, the
// decision and, for approved loans, the schedule. It returns an error only
// when ctx is done before the documents are verified. It panics if profile
// fails validation.
func (e *Engine) Run(ctx context.Context, profile model.ApplicantProfile, docs []*model.DocumentRecord) (model.ApplicationReport, error) {
	profile.MustValidate()

	results := make([]model.VerificationResult, len(docs))
	var (
		opinion port.AdvisoryResult
		advised bool
	)

	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		// One extra slot for the application-level advisory call.
		g.SetLimit(e.concurrency + 1)
	}
	g.Go(func() error {
		opinion, advised = e.advisor.Advise(gctx, applicationAdvisoryInput(profile))
		return nil
	})
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.verifier.Verify(gctx, doc, profile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ApplicationReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.ApplicationReport{}, err
	}

	var opinionPtr *port.AdvisoryResult
	if advised {
		opinionPtr = &opinion
	}

	employment := e.employment.Verify(profile, salarySlipResult(results))
	na := e.na.Verify(profile, docs)
	docSet := BuildDocumentSetReport(results)
	assessment := e.scorer.AssessWithOpinion(profile, results, opinionPtr)
	decision := e.decider.Decide(profile, assessment)

	report := model.ApplicationReport{
		Verifications: results,
		Employment:    employment,
		NADocument:    na,
		DocumentSet:   docSet,
		Summary:       SummarizeVerification(employment, docSet, na),
		Banking:       AnalyzeBanking(profile),
		Assessment:    assessment,
		Decision:      decision,
	}
	if decision.Status.Equal(valueobject.DecisionApproved) {
		report.Schedule = e.amortization.BuildSchedule(profile.LoanAmount, decision.InterestRate, decision.TermMonths(), decision.EMIAmount)
	}

	e.logger.InfoContext(ctx, "application assessed",
		"application_id", profile.ApplicationID.String(),
		"documents", len(docs),
		"overall_risk_score", assessment.OverallRiskScore,
		"risk_level", assessment.RiskLevel.String(),
		"decision", decision.Status.String(),
		"advisory_used", advised,
	)
	return report, nil
}

func applicationAdvisoryInput(p model.ApplicantProfile) port.AdvisoryInput {
	return port.AdvisoryInput{
		Purpose:           port.AdvisoryPurposeApplication,
		ApplicantName:     p.FullName(),
		MonthlyIncome:     p.MonthlyIncome,
		LoanAmount:        p.LoanAmount,
		PropertyValuation: p.PropertyValuation,
		Features:          ExtractFeatures(p),
		CIBILScore:        p.CIBILScore,
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

// AssessApplicationUseCase runs the full pipeline for an application, records
// the outcome on its LoanDecision and publishes the resulting events.
type AssessApplicationUseCase struct {
	engine    *service.Engine
	repo      port.DecisionRepository
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssessApplicationUseCase wires dependencies. metrics and now may be nil.
func NewAssessApplicationUseCase(
	engine *service.Engine,
	repo port.DecisionRepository,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
	now func() time.Time,
) *AssessApplicationUseCase {
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &AssessApplicationUseCase{
		engine:    engine,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       now,
	}
}

// Execute assesses the application and stores the decision. Re-assessing an
// application replaces its stored decision and bumps its version.
func (uc *AssessApplicationUseCase) Execute(ctx context.Context, req dto.AssessApplicationRequest) (_ dto.AssessApplicationResponse, err error) {
	ctx, span := startSpan(ctx, "AssessApplication")
	defer func() { endSpan(span, err) }()

	// 1. Validate input.
	profile, err := req.Applicant.Profile()
	if err != nil {
		return dto.AssessApplicationResponse{}, err
	}
	docs := make([]*model.DocumentRecord, len(req.Documents))
	for i, d := range req.Documents {
		if d == nil {
			continue
		}
		if docs[i], err = d.Record(); err != nil {
			return dto.AssessApplicationResponse{}, fmt.Errorf("%w: document %d: %w", ErrInvalidRequest, i, err)
		}
	}
	span.SetAttributes(
		attribute.String("application.id", profile.ApplicationID.String()),
		attribute.Int("application.documents", len(docs)),
	)

	// 2. Run the pipeline.
	report, err := uc.engine.Run(ctx, profile, docs)
	if err != nil {
		return dto.AssessApplicationResponse{}, fmt.Errorf("run engine: %w", err)
	}

	// 3. Record the outcome on the existing or a new decision.
	decision, err := uc.loadOrCreate(ctx, profile)
	if err != nil {
		return dto.AssessApplicationResponse{}, err
	}
	if err := decision.Record(report.Verifications, report.Assessment, report.Decision, report.Summary, report.Schedule, uc.now().UTC()); err != nil {
		return dto.AssessApplicationResponse{}, fmt.Errorf("record decision: %w", err)
	}

	// 4. Persist.
	if err := uc.repo.Save(ctx, decision); err != nil {
		return dto.AssessApplicationResponse{}, fmt.Errorf("save decision: %w", err)
	}
	uc.metrics.ObserveDecision(report.Decision.Status.String(), report.Assessment.RiskLevel.String(), report.Assessment.OverallRiskScore)

	// 5. Publish domain events.
	if err := uc.publisher.Publish(ctx, decision.DomainEvents()...); err != nil {
		return dto.AssessApplicationResponse{}, fmt.Errorf("publish events: %w", err)
	}

	span.SetAttributes(
		attribute.String("decision.status", report.Decision.Status.String()),
		attribute.Float64("risk.overall", report.Assessment.OverallRiskScore),
	)
	uc.logger.InfoContext(ctx, "decision recorded",
		"application_id", profile.ApplicationID.String(),
		"decision_id", decision.ID().String(),
		"version", decision.Version(),
		"status", report.Decision.Status.String(),
	)

	return dto.AssessApplicationResponse{
		DecisionID:    decision.ID(),
		ApplicationID: decision.ApplicationID(),
		Version:       decision.Version(),
		Report:        report,
	}, nil
}

func (uc *AssessApplicationUseCase) loadOrCreate(ctx context.Context, p model.ApplicantProfile) (*model.LoanDecision, error) {
	d, err := uc.repo.FindByApplicationID(ctx, p.ApplicationID)
	switch {
	case err == nil:
		return d, nil
	case errors.Is(err, port.ErrDecisionNotFound):
		d, err = model.NewLoanDecision(p.ApplicationID, uc.now().UTC())
		if err != nil {
			return nil, fmt.Errorf("create decision: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("find decision: %w", err)
	}
}

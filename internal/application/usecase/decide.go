package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

// DecideUseCase maps an assessment to a decision without persisting it.
type DecideUseCase struct {
	decider *service.DecisionEngine
}

// NewDecideUseCase wires dependencies.
func NewDecideUseCase(decider *service.DecisionEngine) *DecideUseCase {
	return &DecideUseCase{decider: decider}
}

// Execute applies the gates and the rate tier table.
func (uc *DecideUseCase) Execute(ctx context.Context, req dto.DecideRequest) (_ model.DecisionResult, err error) {
	_, span := startSpan(ctx, "Decide")
	defer func() { endSpan(span, err) }()

	profile, err := req.Applicant.Profile()
	if err != nil {
		return model.DecisionResult{}, err
	}
	if err := checkAssessment(req.Assessment); err != nil {
		return model.DecisionResult{}, err
	}

	d := uc.decider.Decide(profile, req.Assessment)
	span.SetAttributes(attribute.String("decision.status", d.Status.String()))
	return d, nil
}

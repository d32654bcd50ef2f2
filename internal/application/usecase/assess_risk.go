package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

// AssessRiskUseCase scores caller-supplied verification results.
type AssessRiskUseCase struct {
	scorer *service.RiskScorer
}

// NewAssessRiskUseCase wires dependencies.
func NewAssessRiskUseCase(scorer *service.RiskScorer) *AssessRiskUseCase {
	return &AssessRiskUseCase{scorer: scorer}
}

// Execute returns the weighted assessment. The advisory category uses the
// deterministic model since no application opinion is requested here.
func (uc *AssessRiskUseCase) Execute(ctx context.Context, req dto.AssessRiskRequest) (_ model.RiskAssessment, err error) {
	_, span := startSpan(ctx, "AssessRisk")
	defer func() { endSpan(span, err) }()

	profile, err := req.Applicant.Profile()
	if err != nil {
		return model.RiskAssessment{}, err
	}
	for i, v := range req.Verifications {
		if err := checkVerification(v); err != nil {
			return model.RiskAssessment{}, fmt.Errorf("verification %d: %w", i, err)
		}
	}

	a := uc.scorer.Assess(profile, req.Verifications)
	span.SetAttributes(attribute.Float64("risk.overall", a.OverallRiskScore))
	return a, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/port"
)

// GetDecisionUseCase loads the stored decision of an application.
type GetDecisionUseCase struct {
	repo port.DecisionRepository
}

// NewGetDecisionUseCase wires dependencies.
func NewGetDecisionUseCase(repo port.DecisionRepository) *GetDecisionUseCase {
	return &GetDecisionUseCase{repo: repo}
}

// Execute returns port.ErrDecisionNotFound when the application was never decided.
func (uc *GetDecisionUseCase) Execute(ctx context.Context, req dto.GetDecisionRequest) (_ dto.DecisionResponse, err error) {
	ctx, span := startSpan(ctx, "GetDecision")
	defer func() { endSpan(span, err) }()

	id, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("%w: application id: %w", ErrInvalidRequest, err)
	}
	d, err := uc.repo.FindByApplicationID(ctx, id)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("find decision: %w", err)
	}
	return dto.FromLoanDecision(d), nil
}

package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
)

// UseCases groups the application operations the handler exposes.
type UseCases struct {
	VerifyDocument    *usecase.VerifyDocumentUseCase
	AssessApplication *usecase.AssessApplicationUseCase
	AssessRisk        *usecase.AssessRiskUseCase
	Decide            *usecase.DecideUseCase
	BuildSchedule     *usecase.BuildScheduleUseCase
	GetDecision       *usecase.GetDecisionUseCase
}

// RiskEngineHandler implements RiskEngineServiceServer on top of the use cases.
type RiskEngineHandler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewRiskEngineHandler creates a handler.
func NewRiskEngineHandler(uc UseCases, logger *slog.Logger) *RiskEngineHandler {
	return &RiskEngineHandler{uc: uc, logger: logger}
}

var _ RiskEngineServiceServer = (*RiskEngineHandler)(nil)

func (h *RiskEngineHandler) VerifyDocument(ctx context.Context, req *dto.VerifyDocumentRequest) (*model.VerificationResult, error) {
	res, err := h.uc.VerifyDocument.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "VerifyDocument", err)
	}
	return &res, nil
}

func (h *RiskEngineHandler) AssessApplication(ctx context.Context, req *dto.AssessApplicationRequest) (*dto.AssessApplicationResponse, error) {
	resp, err := h.uc.AssessApplication.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "AssessApplication", err)
	}
	return &resp, nil
}

func (h *RiskEngineHandler) AssessRisk(ctx context.Context, req *dto.AssessRiskRequest) (*model.RiskAssessment, error) {
	a, err := h.uc.AssessRisk.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "AssessRisk", err)
	}
	return &a, nil
}

func (h *RiskEngineHandler) Decide(ctx context.Context, req *dto.DecideRequest) (*model.DecisionResult, error) {
	d, err := h.uc.Decide.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "Decide", err)
	}
	return &d, nil
}

func (h *RiskEngineHandler) BuildSchedule(ctx context.Context, req *dto.BuildScheduleRequest) (*dto.ScheduleResponse, error) {
	resp, err := h.uc.BuildSchedule.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "BuildSchedule", err)
	}
	return &resp, nil
}

func (h *RiskEngineHandler) GetDecision(ctx context.Context, req *dto.GetDecisionRequest) (*dto.DecisionResponse, error) {
	resp, err := h.uc.GetDecision.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "GetDecision", err)
	}
	return &resp, nil
}

// toStatus maps application errors to gRPC codes. Unexpected errors are
// logged and reported as Internal without their detail.
func (h *RiskEngineHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidProfile), errors.Is(err, usecase.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrDecisionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, port.ErrDecisionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	h.logger.ErrorContext(ctx, "rpc failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}

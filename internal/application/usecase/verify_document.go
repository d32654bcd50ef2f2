package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

// VerifyDocumentUseCase verifies a single document against the applicant.
type VerifyDocumentUseCase struct {
	verifier *service.DocumentVerifier
}

// NewVerifyDocumentUseCase wires dependencies.
func NewVerifyDocumentUseCase(verifier *service.DocumentVerifier) *VerifyDocumentUseCase {
	return &VerifyDocumentUseCase{verifier: verifier}
}

// Execute verifies the document. A nil document yields the REJECTED
// "not available" result rather than an error.
func (uc *VerifyDocumentUseCase) Execute(ctx context.Context, req dto.VerifyDocumentRequest) (_ model.VerificationResult, err error) {
	ctx, span := startSpan(ctx, "VerifyDocument")
	defer func() { endSpan(span, err) }()

	profile, err := req.Applicant.Profile()
	if err != nil {
		return model.VerificationResult{}, err
	}
	var doc *model.DocumentRecord
	if req.Document != nil {
		if doc, err = req.Document.Record(); err != nil {
			return model.VerificationResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	res := uc.verifier.Verify(ctx, doc, profile)
	span.SetAttributes(
		attribute.String("document.type", res.DocumentType.String()),
		attribute.String("verification.status", res.Status.String()),
	)
	return res, nil
}

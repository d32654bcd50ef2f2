package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/loanrisk/internal/domain/model"
)

// ErrInvalidRequest is returned for malformed input that is not an applicant
// profile problem (those wrap model.ErrInvalidProfile).
var ErrInvalidRequest = errors.New("invalid request")

var tracer = otel.Tracer("github.com/bibbank/loanrisk/internal/application/usecase")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "usecase."+name)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func checkScore(name string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: %s score %v outside [0, 100]", ErrInvalidRequest, name, v)
	}
	return nil
}

func checkAssessment(a model.RiskAssessment) error {
	for _, s := range []struct {
		name  string
		value float64
	}{
		{"employment", a.Employment},
		{"documents", a.Documents},
		{"financial", a.Financial},
		{"fraud", a.Fraud},
		{"advisory", a.Advisory},
		{"overall", a.OverallRiskScore},
	} {
		if err := checkScore(s.name, s.value); err != nil {
			return err
		}
	}
	return nil
}

func checkVerification(v model.VerificationResult) error {
	if v.Status.String() == "" {
		return fmt.Errorf("%w: verification status is required", ErrInvalidRequest)
	}
	for _, s := range []struct {
		name  string
		value float64
	}{
		{"match", v.MatchScore},
		{"anomaly", v.AnomalyScore},
		{"confidence", v.ConfidenceScore},
	} {
		if err := checkScore(s.name, s.value); err != nil {
			return err
		}
	}
	return nil
}

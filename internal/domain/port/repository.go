package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/pkg/events"
)

var (
	// ErrDecisionNotFound is returned when no decision has been recorded for an application.
	ErrDecisionNotFound = errors.New("loan decision not found")

	// ErrDecisionConflict is returned when the stored decision changed since it was loaded.
	ErrDecisionConflict = errors.New("loan decision modified concurrently")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// DecisionRepository persists and retrieves loan decisions.
type DecisionRepository interface {
	// Save upserts the decision for its application and replaces the stored
	// per-document verification results.
	Save(ctx context.Context, decision *model.LoanDecision) error

	// FindByApplicationID returns ErrDecisionNotFound when nothing is stored.
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.LoanDecision, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

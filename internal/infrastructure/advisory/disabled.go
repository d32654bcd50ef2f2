package advisory

import (
	"context"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

// Disabled is the AdvisoryScorer used when no advisory service is
// configured. Every call reports port.ErrAdvisoryDisabled, which the
// engine treats as "no opinion" without retrying.
type Disabled struct{}

func (Disabled) Score(context.Context, port.AdvisoryInput) (port.AdvisoryResult, error) {
	return port.AdvisoryResult{}, port.ErrAdvisoryDisabled
}

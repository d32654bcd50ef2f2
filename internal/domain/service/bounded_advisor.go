package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

// Advisory outcomes reported to the metrics recorder.
const (
	AdvisoryOutcomeOK       = "ok"
	AdvisoryOutcomeError    = "error"
	AdvisoryOutcomeTimeout  = "timeout"
	AdvisoryOutcomeDisabled = "disabled"
)

// AdvisorConfig bounds the advisory call.
type AdvisorConfig struct {
	Timeout     time.Duration
	Backoff     time.Duration
	MaxAttempts int
}

// DefaultAdvisorConfig allows one retry with a short backoff.
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		Timeout:     5 * time.Second,
		Backoff:     200 * time.Millisecond,
		MaxAttempts: 2,
	}
}

// BoundedAdvisor wraps an AdvisoryScorer so that the engine never waits longer
// than the configured bound and never sees an advisory error. Failures are
// logged and reported as "no opinion".
type BoundedAdvisor struct {
	scorer  port.AdvisoryScorer
	metrics port.MetricsRecorder
	logger  *slog.Logger
	cfg     AdvisorConfig
}

// NewBoundedAdvisor creates a BoundedAdvisor. A nil scorer disables advice.
func NewBoundedAdvisor(scorer port.AdvisoryScorer, cfg AdvisorConfig, metrics port.MetricsRecorder, logger *slog.Logger) *BoundedAdvisor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAdvisorConfig().Timeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BoundedAdvisor{scorer: scorer, cfg: cfg, metrics: metrics, logger: logger}
}

// Advise returns the advisory opinion and true, or false when no usable
// opinion arrived within the bound.
func (a *BoundedAdvisor) Advise(ctx context.Context, in port.AdvisoryInput) (port.AdvisoryResult, bool) {
	if a == nil || a.scorer == nil {
		return port.AdvisoryResult{}, false
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= a.cfg.MaxAttempts; attempt++ {
		if attempt > 1 && !sleepCtx(ctx, a.cfg.Backoff) {
			break
		}

		res, err := a.attempt(ctx, in)
		if err == nil {
			a.metrics.ObserveAdvisory(string(in.Purpose), AdvisoryOutcomeOK, time.Since(start))
			return res, true
		}
		lastErr = err

		if errors.Is(err, port.ErrAdvisoryDisabled) {
			a.metrics.ObserveAdvisory(string(in.Purpose), AdvisoryOutcomeDisabled, time.Since(start))
			return port.AdvisoryResult{}, false
		}
		a.logger.WarnContext(ctx, "advisory call failed",
			"purpose", in.Purpose,
			"document_type", in.DocumentType.String(),
			"attempt", attempt,
			"error", err,
		)
		if ctx.Err() != nil {
			break
		}
	}

	outcome := AdvisoryOutcomeError
	if errors.Is(lastErr, port.ErrAdvisoryTimeout) {
		outcome = AdvisoryOutcomeTimeout
	}
	a.metrics.ObserveAdvisory(string(in.Purpose), outcome, time.Since(start))
	a.logger.WarnContext(ctx, "advisory unavailable, using deterministic scoring", "purpose", in.Purpose)
	return port.AdvisoryResult{}, false
}

// attempt runs one call in its own goroutine so that a scorer which ignores
// context cancellation still cannot hold the caller past the timeout.
func (a *BoundedAdvisor) attempt(ctx context.Context, in port.AdvisoryInput) (port.AdvisoryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	type outcome struct {
		res port.AdvisoryResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := a.scorer.Score(ctx, in)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && errors.Is(o.err, context.DeadlineExceeded) {
			return port.AdvisoryResult{}, fmt.Errorf("%w: %v", port.ErrAdvisoryTimeout, o.err)
		}
		return o.res, o.err
	case <-ctx.Done():
		return port.AdvisoryResult{}, fmt.Errorf("%w after %s", port.ErrAdvisoryTimeout, a.cfg.Timeout)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

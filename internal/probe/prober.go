package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hmoradi/svcready/internal/domain"
)

// Prober runs a readiness probe to completion: strictly sequential attempts,
// short-circuit on the first success, a fixed sleep between attempts and
// none after the last one.
type Prober struct {
	Logger  *zap.Logger
	Options Options

	// sleep is swappable in tests; the default honors ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(logger *zap.Logger, opts Options) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{Logger: logger, Options: opts, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Probe validates the request, resolves the strategy for its kind and runs
// the retry loop. Invalid requests and missing client tooling consume zero
// attempts.
func (p *Prober) Probe(ctx context.Context, req domain.ProbeRequest) domain.ProbeResult {
	if err := req.Validate(); err != nil {
		return domain.ProbeResult{State: domain.StateInvalid, Diagnostic: err.Error()}
	}
	opts := p.Options
	if req.Native {
		opts.Native = true
	}
	strat, err := ForKind(req.Kind, opts)
	if err != nil {
		return domain.ProbeResult{State: domain.StateInvalid, Diagnostic: err.Error()}
	}
	return p.Run(ctx, req, strat)
}

// Run probes with a caller-supplied strategy. Validation still applies.
func (p *Prober) Run(ctx context.Context, req domain.ProbeRequest, strat Strategy) domain.ProbeResult {
	if err := req.Validate(); err != nil {
		return domain.ProbeResult{State: domain.StateInvalid, Diagnostic: err.Error()}
	}

	var last Outcome
	for attempt := 1; attempt <= req.MaxAttempts; attempt++ {
		last = strat.Check(ctx, req.Host, req.Port)
		p.Logger.Debug("probe_attempt",
			zap.String("service", string(req.Kind)),
			zap.String("check", strat.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", req.MaxAttempts),
			zap.Bool("success", last.Success),
			zap.String("message", last.Message),
			zap.Float64("latency_ms", last.LatencyMS),
		)
		if last.Success {
			return domain.ProbeResult{
				State:        domain.StateReady,
				Ready:        true,
				AttemptsUsed: attempt,
				Check:        strat.Name(),
			}
		}
		if attempt < req.MaxAttempts {
			if err := p.sleep(ctx, req.RetryInterval); err != nil {
				return domain.ProbeResult{
					State:        domain.StateExhausted,
					AttemptsUsed: attempt,
					Check:        strat.Name(),
					Diagnostic:   fmt.Sprintf("cancelled after attempt %d: %s", attempt, last.Message),
				}
			}
		}
	}
	return domain.ProbeResult{
		State:        domain.StateExhausted,
		AttemptsUsed: req.MaxAttempts,
		Check:        strat.Name(),
		Diagnostic:   last.Message,
	}
}

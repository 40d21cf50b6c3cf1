package probe

import "context"

// Outcome holds the result of a single readiness attempt.
type Outcome struct {
	Success   bool
	Message   string
	LatencyMS float64
}

// Strategy performs one readiness check against host:port. Implementations
// must be safe to call repeatedly; the retry loop owns attempt accounting.
type Strategy interface {
	Name() string
	Check(ctx context.Context, host string, port int) Outcome
}

package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PgIsReadyStrategy shells out to pg_isready. Success is exit code zero,
// matching the semantics of the tool itself.
type PgIsReadyStrategy struct {
	runner  CommandRunner
	user    string
	timeout time.Duration
}

// NewPgIsReady verifies the binary exists up front; a missing binary is a
// tooling error, not something to retry.
func NewPgIsReady(runner CommandRunner, user string, timeout time.Duration) (*PgIsReadyStrategy, error) {
	if runner == nil {
		runner = SystemRunner()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if _, err := runner.LookPath("pg_isready"); err != nil {
		return nil, fmt.Errorf("%w: pg_isready", ErrToolMissing)
	}
	return &PgIsReadyStrategy{runner: runner, user: user, timeout: timeout}, nil
}

func (s *PgIsReadyStrategy) Name() string { return "pg_isready" }

func (s *PgIsReadyStrategy) Check(ctx context.Context, host string, port int) Outcome {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// pg_isready treats -t 0 as "no timeout"; round sub-second budgets up
	tsec := int(s.timeout.Seconds())
	if tsec < 1 {
		tsec = 1
	}
	args := []string{"-h", host, "-p", strconv.Itoa(port), "-t", strconv.Itoa(tsec)}
	if s.user != "" {
		args = append(args, "-U", s.user)
	}

	start := time.Now()
	out, err := s.runner.Run(cctx, "pg_isready", args...)
	lat := time.Since(start).Seconds() * 1000

	msg := strings.TrimSpace(string(out))
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		return Outcome{Success: false, Message: msg, LatencyMS: lat}
	}
	if msg == "" {
		msg = "accepting connections"
	}
	return Outcome{Success: true, Message: msg, LatencyMS: lat}
}

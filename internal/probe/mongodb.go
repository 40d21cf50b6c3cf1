package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// MongoShellStrategy runs an admin ping through mongosh. Success requires
// both a zero exit code and an acknowledged ping in the output.
type MongoShellStrategy struct {
	runner  CommandRunner
	timeout time.Duration
}

func NewMongoShell(runner CommandRunner, timeout time.Duration) (*MongoShellStrategy, error) {
	if runner == nil {
		runner = SystemRunner()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if _, err := runner.LookPath("mongosh"); err != nil {
		return nil, fmt.Errorf("%w: mongosh", ErrToolMissing)
	}
	return &MongoShellStrategy{runner: runner, timeout: timeout}, nil
}

func (s *MongoShellStrategy) Name() string { return "mongosh" }

func (s *MongoShellStrategy) Check(ctx context.Context, host string, port int) Outcome {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	uri := "mongodb://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
	args := []string{"--quiet", "--eval", "db.adminCommand({ ping: 1 }).ok", uri}

	start := time.Now()
	out, err := s.runner.Run(cctx, "mongosh", args...)
	lat := time.Since(start).Seconds() * 1000

	msg := strings.TrimSpace(string(out))
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		return Outcome{Success: false, Message: msg, LatencyMS: lat}
	}
	// the eval prints exactly the ok field; anything else is not an ack,
	// even on a zero exit code
	if msg != "1" {
		return Outcome{Success: false, Message: "ping not acknowledged: " + msg, LatencyMS: lat}
	}
	return Outcome{Success: true, Message: "ping acknowledged", LatencyMS: lat}
}

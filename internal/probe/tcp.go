package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// TCPStrategy attempts a raw TCP connect. It certifies that something is
// listening on the port, nothing more — no application-level handshake.
type TCPStrategy struct {
	Timeout time.Duration
}

func NewTCPStrategy(timeout time.Duration) *TCPStrategy {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &TCPStrategy{Timeout: timeout}
}

func (s *TCPStrategy) Name() string { return "tcp" }

func (s *TCPStrategy) Check(ctx context.Context, host string, port int) Outcome {
	start := time.Now()
	d := net.Dialer{Timeout: s.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	lat := time.Since(start).Seconds() * 1000
	if err != nil {
		return Outcome{Success: false, Message: err.Error(), LatencyMS: lat}
	}
	_ = conn.Close()
	return Outcome{Success: true, Message: "port accepts connections", LatencyMS: lat}
}

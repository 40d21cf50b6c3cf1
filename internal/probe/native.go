package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Driver-level checks for environments without the client binaries. These
// are explicitly selected (ProbeRequest.Native), never a silent fallback.

// PostgresDriverStrategy pings the server over the wire protocol with pgx.
type PostgresDriverStrategy struct {
	// URL overrides the connection string entirely; when empty one is
	// built from User (default "postgres"), host and port.
	URL     string
	User    string
	Timeout time.Duration
}

func (s *PostgresDriverStrategy) Name() string { return "pgx" }

func (s *PostgresDriverStrategy) connString(host string, port int) string {
	if s.URL != "" {
		return s.URL
	}
	user := s.User
	if user == "" {
		user = "postgres"
	}
	return "postgres://" + user + "@" + net.JoinHostPort(host, strconv.Itoa(port)) + "/postgres?sslmode=disable"
}

func (s *PostgresDriverStrategy) Check(ctx context.Context, host string, port int) Outcome {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conn, err := pgx.Connect(cctx, s.connString(host, port))
	if err != nil {
		return Outcome{Success: false, Message: err.Error(), LatencyMS: msSince(start)}
	}
	defer func() { _ = conn.Close(cctx) }()

	if err := conn.Ping(cctx); err != nil {
		return Outcome{Success: false, Message: err.Error(), LatencyMS: msSince(start)}
	}
	return Outcome{Success: true, Message: "server responded to ping", LatencyMS: msSince(start)}
}

// MongoDriverStrategy pings via the official driver against the primary.
type MongoDriverStrategy struct {
	Timeout time.Duration
}

func (s *MongoDriverStrategy) Name() string { return "mongo-driver" }

func (s *MongoDriverStrategy) Check(ctx context.Context, host string, port int) Outcome {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	uri := "mongodb://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout)

	start := time.Now()
	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return Outcome{Success: false, Message: err.Error(), LatencyMS: msSince(start)}
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		return Outcome{Success: false, Message: err.Error(), LatencyMS: msSince(start)}
	}
	return Outcome{Success: true, Message: "ping acknowledged", LatencyMS: msSince(start)}
}

func msSince(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}

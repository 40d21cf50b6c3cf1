package probe

import (
	"fmt"
	"time"

	"github.com/hmoradi/svcready/internal/domain"
)

// Options configures strategy construction.
type Options struct {
	Runner         CommandRunner // nil means os/exec
	DialTimeout    time.Duration // per-attempt TCP connect timeout
	CommandTimeout time.Duration // per-attempt client command timeout
	PostgresUser   string        // passed to pg_isready -U when set
	PostgresURL    string        // overrides the pgx URL for native checks
	Native         bool          // prefer driver checks over client binaries
}

// ForKind maps a service kind to its check strategy.
//
// nats, vault and valkey only get a bare TCP connect: there is no
// lightweight universal client for them, so "ready" certifies
// port-listening, not application health. The result's Check field exposes
// which strategy actually ran.
func ForKind(kind domain.ServiceKind, opts Options) (Strategy, error) {
	switch kind {
	case domain.KindPostgres:
		if opts.Native {
			return &PostgresDriverStrategy{URL: opts.PostgresURL, User: opts.PostgresUser, Timeout: opts.CommandTimeout}, nil
		}
		return NewPgIsReady(opts.Runner, opts.PostgresUser, opts.CommandTimeout)
	case domain.KindMongoDB:
		if opts.Native {
			return &MongoDriverStrategy{Timeout: opts.CommandTimeout}, nil
		}
		return NewMongoShell(opts.Runner, opts.CommandTimeout)
	case domain.KindNATS, domain.KindVault, domain.KindValkey, domain.KindTCP:
		return NewTCPStrategy(opts.DialTimeout), nil
	default:
		return nil, fmt.Errorf("%w: unsupported service kind %q", domain.ErrInvalidRequest, kind)
	}
}

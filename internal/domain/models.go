package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest marks probe requests that fail validation. These are
// rejected before any attempt runs.
var ErrInvalidRequest = errors.New("invalid probe request")

// ServiceKind selects the readiness check strategy for a probe.
type ServiceKind string

const (
	KindPostgres ServiceKind = "postgres"
	KindMongoDB  ServiceKind = "mongodb"
	KindNATS     ServiceKind = "nats"
	KindVault    ServiceKind = "vault"
	KindValkey   ServiceKind = "valkey"
	KindTCP      ServiceKind = "tcp-generic"
)

// Known reports whether the kind maps to a check strategy. Matching is
// case-sensitive.
func (k ServiceKind) Known() bool {
	switch k {
	case KindPostgres, KindMongoDB, KindNATS, KindVault, KindValkey, KindTCP:
		return true
	}
	return false
}

// KnownKinds lists every accepted service kind, for error messages and docs.
func KnownKinds() []ServiceKind {
	return []ServiceKind{KindPostgres, KindMongoDB, KindNATS, KindVault, KindValkey, KindTCP}
}

// State is the terminal state of a probe.
type State string

const (
	StateReady     State = "ready"
	StateExhausted State = "exhausted"
	StateInvalid   State = "invalid"
)

// Defaults applied by WithDefaults and by the CLI/API edges.
const (
	DefaultHost          = "localhost"
	DefaultMaxAttempts   = 30
	DefaultRetryInterval = 2 * time.Second
)

// ProbeRequest describes a single readiness probe. Library callers that
// leave Host, MaxAttempts or RetryInterval zero should pass the request
// through WithDefaults first; validation rejects non-positive values.
type ProbeRequest struct {
	Kind          ServiceKind
	Host          string
	Port          int
	MaxAttempts   int
	RetryInterval time.Duration
	// Native selects driver-level checks for postgres/mongodb instead of
	// the client binaries. Never used as an implicit fallback.
	Native bool
}

func (r ProbeRequest) WithDefaults() ProbeRequest {
	if r.Host == "" {
		r.Host = DefaultHost
	}
	if r.MaxAttempts == 0 {
		r.MaxAttempts = DefaultMaxAttempts
	}
	if r.RetryInterval == 0 {
		r.RetryInterval = DefaultRetryInterval
	}
	return r
}

func (r ProbeRequest) Validate() error {
	if !r.Kind.Known() {
		return fmt.Errorf("%w: unsupported service kind %q", ErrInvalidRequest, r.Kind)
	}
	if r.Port < 1 || r.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidRequest, r.Port)
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidRequest, r.MaxAttempts)
	}
	if r.RetryInterval <= 0 {
		return fmt.Errorf("%w: retry interval must be positive, got %s", ErrInvalidRequest, r.RetryInterval)
	}
	return nil
}

// ProbeResult is the terminal outcome of one probe invocation.
//
// Ready implies AttemptsUsed is the attempt that succeeded; exhausted
// results always carry AttemptsUsed == MaxAttempts and the last failure in
// Diagnostic. Invalid results consume zero attempts.
type ProbeResult struct {
	State        State  `json:"state"`
	Ready        bool   `json:"ready"`
	AttemptsUsed int    `json:"attempts_used"`
	Check        string `json:"check,omitempty"` // strategy actually used, e.g. "tcp" for valkey
	Diagnostic   string `json:"diagnostic,omitempty"`
}

// ProbeRecord is a stored probe run, for history endpoints and publishers.
type ProbeRecord struct {
	ID           string      `json:"id"`
	Kind         ServiceKind `json:"service"`
	Host         string      `json:"host"`
	Port         int         `json:"port"`
	State        State       `json:"state"`
	Ready        bool        `json:"ready"`
	AttemptsUsed int         `json:"attempts_used"`
	Check        string      `json:"check,omitempty"`
	Diagnostic   string      `json:"diagnostic,omitempty"`
	CheckedAt    time.Time   `json:"checked_at"`
}

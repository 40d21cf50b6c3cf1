package repo

import (
	"context"

	"github.com/hmoradi/svcready/internal/domain"
)

// ProbeStore persists executed probe runs. Probes themselves are stateless;
// the store only exists for the API's history endpoint and downstream
// consumers.
type ProbeStore interface {
	Append(ctx context.Context, rec *domain.ProbeRecord) error
	// List returns records newest-first, at most limit (<=0 means all).
	List(ctx context.Context, limit int) ([]*domain.ProbeRecord, error)
}

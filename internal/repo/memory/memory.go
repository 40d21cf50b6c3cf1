package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hmoradi/svcready/internal/domain"
	"github.com/hmoradi/svcready/internal/repo"
)

type Store struct {
	mu   sync.RWMutex
	recs []*domain.ProbeRecord
}

func New() *Store {
	return &Store{recs: make([]*domain.ProbeRecord, 0, 128)}
}

func (m *Store) Append(ctx context.Context, rec *domain.ProbeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = time.Now().UTC().Format("20060102T150405.000000000")
	}
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = time.Now().UTC()
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *Store) List(ctx context.Context, limit int) ([]*domain.ProbeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.recs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*domain.ProbeRecord, 0, limit)
	// newest first
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.recs[i])
	}
	return out, nil
}

var _ repo.ProbeStore = (*Store)(nil)

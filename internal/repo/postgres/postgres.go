package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmoradi/svcready/internal/domain"
	"github.com/hmoradi/svcready/internal/repo"
)

var _ repo.ProbeStore = (*Store)(nil)

// Store keeps probe history in postgres.
//
// Schema:
//
//	CREATE TABLE probes (
//	    id         text PRIMARY KEY,
//	    service    text NOT NULL,
//	    host       text NOT NULL,
//	    port       int  NOT NULL,
//	    state      text NOT NULL,
//	    ready      boolean NOT NULL,
//	    attempts   int  NOT NULL,
//	    "check"    text NOT NULL DEFAULT '',
//	    diagnostic text NOT NULL DEFAULT '',
//	    checked_at timestamptz NOT NULL
//	);
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Append(ctx context.Context, rec *domain.ProbeRecord) error {
	if rec.ID == "" {
		rec.ID = time.Now().UTC().Format("20060102T150405.000000000")
	}
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO probes (id, service, host, port, state, ready, attempts, "check", diagnostic, checked_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, string(rec.Kind), rec.Host, rec.Port, string(rec.State),
		rec.Ready, rec.AttemptsUsed, rec.Check, rec.Diagnostic, rec.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert probe: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]*domain.ProbeRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, service, host, port, state, ready, attempts, "check", diagnostic, checked_at
		   FROM probes
		  ORDER BY checked_at DESC, id DESC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list probes: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProbeRecord
	for rows.Next() {
		var (
			rec     domain.ProbeRecord
			service string
			state   string
		)
		if err := rows.Scan(&rec.ID, &service, &rec.Host, &rec.Port, &state,
			&rec.Ready, &rec.AttemptsUsed, &rec.Check, &rec.Diagnostic, &rec.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan probe: %w", err)
		}
		rec.Kind = domain.ServiceKind(service)
		rec.State = domain.State(state)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

package probe

import (
	"testing"

	"github.com/hmoradi/svcready/internal/domain"
)

func TestPostgresDriver_ConnString(t *testing.T) {
	s := &PostgresDriverStrategy{}
	if got, want := s.connString("db", 5432), "postgres://postgres@db:5432/postgres?sslmode=disable"; got != want {
		t.Fatalf("default conn string:\ngot  %q\nwant %q", got, want)
	}

	s = &PostgresDriverStrategy{User: "app"}
	if got, want := s.connString("db", 5433), "postgres://app@db:5433/postgres?sslmode=disable"; got != want {
		t.Fatalf("user-derived conn string:\ngot  %q\nwant %q", got, want)
	}

	// explicit URL wins over everything
	s = &PostgresDriverStrategy{URL: "postgres://u:pw@elsewhere:5/db", User: "ignored"}
	if got := s.connString("db", 5432); got != "postgres://u:pw@elsewhere:5/db" {
		t.Fatalf("URL override not honored: %q", got)
	}
}

func TestForKind_NativePostgresCarriesUser(t *testing.T) {
	s, err := ForKind(domain.KindPostgres, Options{Native: true, PostgresUser: "app"})
	if err != nil {
		t.Fatalf("ForKind: %v", err)
	}
	pg, ok := s.(*PostgresDriverStrategy)
	if !ok {
		t.Fatalf("want PostgresDriverStrategy, got %T", s)
	}
	if pg.User != "app" {
		t.Fatalf("PostgresUser not passed through, got %q", pg.User)
	}
}

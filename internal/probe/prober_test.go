package probe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hmoradi/svcready/internal/domain"
)

// fake strategy you can script per attempt
type fakeStrategy struct {
	results []Outcome
	calls   int
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) Check(ctx context.Context, host string, port int) Outcome {
	if f.calls >= len(f.results) {
		f.calls++
		return Outcome{Success: false, Message: "no more"}
	}
	r := f.results[f.calls]
	f.calls++
	return r
}

func req(attempts int, interval time.Duration) domain.ProbeRequest {
	return domain.ProbeRequest{
		Kind:          domain.KindTCP,
		Host:          "localhost",
		Port:          5432,
		MaxAttempts:   attempts,
		RetryInterval: interval,
	}
}

func TestProber_SucceedsOnThirdAttempt(t *testing.T) {
	f := &fakeStrategy{results: []Outcome{
		{Success: false, Message: "refused"},
		{Success: false, Message: "refused"},
		{Success: true, Message: "ok"},
	}}
	p := New(nil, Options{})
	p.sleep = func(context.Context, time.Duration) error { return nil }

	out := p.Run(context.Background(), req(3, time.Second), f)
	if !out.Ready || out.State != domain.StateReady {
		t.Fatalf("want ready, got %+v", out)
	}
	if out.AttemptsUsed != 3 {
		t.Fatalf("want 3 attempts used, got %d", out.AttemptsUsed)
	}
	if f.calls != 3 {
		t.Fatalf("want exactly 3 checks, got %d", f.calls)
	}
}

func TestProber_ShortCircuitsOnFirstSuccess(t *testing.T) {
	f := &fakeStrategy{results: []Outcome{{Success: true}}}
	p := New(nil, Options{})
	p.sleep = func(context.Context, time.Duration) error {
		t.Fatal("sleep should not be called when the first attempt succeeds")
		return nil
	}

	out := p.Run(context.Background(), req(30, time.Second), f)
	if !out.Ready || out.AttemptsUsed != 1 {
		t.Fatalf("want ready on attempt 1, got %+v", out)
	}
	if f.calls != 1 {
		t.Fatalf("budget not short-circuited: %d checks", f.calls)
	}
}

func TestProber_ExhaustsBudget(t *testing.T) {
	f := &fakeStrategy{} // always fails
	slept := 0
	p := New(nil, Options{})
	p.sleep = func(context.Context, time.Duration) error { slept++; return nil }

	out := p.Run(context.Background(), req(4, time.Second), f)
	if out.Ready || out.State != domain.StateExhausted {
		t.Fatalf("want exhausted, got %+v", out)
	}
	if out.AttemptsUsed != 4 {
		t.Fatalf("want attempts_used == max, got %d", out.AttemptsUsed)
	}
	if out.Diagnostic == "" {
		t.Fatalf("want diagnostic on exhaustion")
	}
	// no sleep after the final attempt
	if slept != 3 {
		t.Fatalf("want 3 sleeps for 4 attempts, got %d", slept)
	}
}

func TestProber_ElapsedTimeSkipsFinalSleep(t *testing.T) {
	f := &fakeStrategy{}
	p := New(nil, Options{})

	interval := 20 * time.Millisecond
	start := time.Now()
	out := p.Run(context.Background(), req(3, interval), f)
	elapsed := time.Since(start)

	if out.Ready {
		t.Fatalf("want failure, got %+v", out)
	}
	// 3 attempts, 2 sleeps: roughly 40ms, never 60ms+
	if elapsed < 2*interval {
		t.Fatalf("elapsed %v shorter than 2 intervals", elapsed)
	}
	if elapsed > 3*interval {
		t.Fatalf("elapsed %v suggests a sleep after the final attempt", elapsed)
	}
}

func TestProber_Idempotent(t *testing.T) {
	p := New(nil, Options{})
	p.sleep = func(context.Context, time.Duration) error { return nil }

	r := req(2, time.Second)
	a := p.Run(context.Background(), r, &fakeStrategy{results: []Outcome{{}, {Success: true}}})
	b := p.Run(context.Background(), r, &fakeStrategy{results: []Outcome{{}, {Success: true}}})
	if a != b {
		t.Fatalf("identical inputs gave different results:\na=%+v\nb=%+v", a, b)
	}
}

func TestProber_ValidationRejectsBeforeAnyAttempt(t *testing.T) {
	cases := []domain.ProbeRequest{
		{Kind: "bogus", Host: "localhost", Port: 80, MaxAttempts: 5, RetryInterval: time.Second},
		{Kind: domain.KindTCP, Host: "localhost", Port: 0, MaxAttempts: 5, RetryInterval: time.Second},
		{Kind: domain.KindTCP, Host: "localhost", Port: 70000, MaxAttempts: 5, RetryInterval: time.Second},
		{Kind: domain.KindTCP, Host: "localhost", Port: 80, MaxAttempts: 0, RetryInterval: time.Second},
		{Kind: domain.KindTCP, Host: "localhost", Port: 80, MaxAttempts: 3, RetryInterval: -time.Second},
	}
	for _, c := range cases {
		f := &fakeStrategy{}
		p := New(nil, Options{})
		out := p.Run(context.Background(), c, f)
		if out.State != domain.StateInvalid {
			t.Fatalf("request %+v: want invalid, got %+v", c, out)
		}
		if out.AttemptsUsed != 0 || f.calls != 0 {
			t.Fatalf("request %+v: attempts consumed on invalid input", c)
		}
	}
}

func TestProber_UnknownKindNamesIt(t *testing.T) {
	p := New(nil, Options{})
	out := p.Probe(context.Background(), domain.ProbeRequest{
		Kind: "bogus", Host: "localhost", Port: 80, MaxAttempts: 5, RetryInterval: time.Second,
	})
	if out.State != domain.StateInvalid || out.AttemptsUsed != 0 {
		t.Fatalf("want invalid with zero attempts, got %+v", out)
	}
	if want := `"bogus"`; !strings.Contains(out.Diagnostic, want) {
		t.Fatalf("diagnostic %q does not name the unsupported kind", out.Diagnostic)
	}
}

func TestProber_CancelStopsBetweenAttempts(t *testing.T) {
	f := &fakeStrategy{}
	p := New(nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := p.Run(ctx, req(10, time.Minute), f)
	if out.Ready {
		t.Fatalf("want failure, got %+v", out)
	}
	if f.calls != 1 {
		t.Fatalf("want a single attempt before cancelled sleep, got %d", f.calls)
	}
	if out.Diagnostic == "" {
		t.Fatalf("want diagnostic mentioning cancellation")
	}
}

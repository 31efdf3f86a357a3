package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopJob(context.Context) error { return nil }

func TestAddValidatesSpec(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "five fields", spec: "30 19 * * *"},
		{name: "six fields with seconds", spec: "0 30 19 * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "every", spec: "@every 55m"},
		{name: "garbage", spec: "not-a-schedule", wantErr: true},
		{name: "too many fields", spec: "0 0 0 * * * *", wantErr: true},
	}
	for i, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := s.Add(tt.name+string(rune('a'+i)), tt.spec, noopJob)
			if tt.wantErr && err == nil {
				t.Fatalf("Add(%q) expected error", tt.spec)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Add(%q) error: %v", tt.spec, err)
			}
		})
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())
	if err := s.Add("job", "@hourly", noopJob); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := s.Add("job", "@daily", noopJob); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestAddRejectsEmptyName(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())
	if err := s.Add("  ", "@hourly", noopJob); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestTickSkipsOverlappingRun(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())

	release := make(chan struct{})
	var runs int
	var mu sync.Mutex
	err := s.Add("slow", "@every 1h", func(ctx context.Context) error {
		mu.Lock()
		runs++
		mu.Unlock()
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	d := &s.defs[0]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.tick(d)
	}()

	// wait until the first tick is inside the job body
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		started := runs == 1
		mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first tick never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// a second tick while the first is running must be a no-op
	s.tick(d)
	mu.Lock()
	got := runs
	mu.Unlock()
	if got != 1 {
		t.Fatalf("overlapping tick ran the job: runs = %d, want 1", got)
	}

	close(release)
	wg.Wait()

	// once the previous run finished, the next tick runs again
	s.tick(d)
	mu.Lock()
	got = runs
	mu.Unlock()
	if got != 2 {
		t.Fatalf("post-completion tick did not run: runs = %d, want 2", got)
	}
}

func TestTickRecoversFromPanic(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())
	if err := s.Add("panics", "@every 1h", func(ctx context.Context) error {
		panic("boom")
	}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	// must not crash the test binary, and must clear the running flag
	s.tick(&s.defs[0])
	s.tick(&s.defs[0])
}

func TestStopWaitsForInFlightRun(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())

	started := make(chan struct{})
	var finished bool
	var mu sync.Mutex
	err := s.Add("inflight", "@every 1h", func(ctx context.Context) error {
		close(started)
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		finished = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	go s.tick(&s.defs[0])
	<-started

	s.Stop(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if !finished {
		t.Fatal("Stop returned before the in-flight run finished")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	t.Parallel()
	s := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	s.Stop(context.Background())
}

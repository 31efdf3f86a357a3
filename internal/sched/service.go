package sched

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type runState struct {
	mu      sync.Mutex
	running bool
}

type jobDef struct {
	name    string
	spec    string
	run     func(ctx context.Context) error
	state   *runState
	entryID cron.EntryID
}

// Service owns the job definitions and the cron runtime. Jobs registered
// before Start are validated immediately and armed on Start.
type Service struct {
	log    zerolog.Logger
	parser cron.Parser

	mu        sync.Mutex
	c         *cron.Cron
	defs      []jobDef
	runCtx    context.Context
	runCancel context.CancelFunc
	inflight  sync.WaitGroup
}

func New(log zerolog.Logger) *Service {
	return &Service{
		log: log,
		// SecondOptional allows both 5-field and 6-field (with seconds) cron specs.
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Add registers a job under a unique name. A malformed spec fails here so
// that startup aborts before anything is half-armed.
func (s *Service) Add(name, spec string, run func(ctx context.Context) error) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("job name required")
	}
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("job %s: invalid spec %q: %w", name, spec, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.defs {
		if d.name == name {
			return fmt.Errorf("job %s: already registered", name)
		}
	}
	s.defs = append(s.defs, jobDef{name: name, spec: spec, run: run, state: &runState{}})
	s.log.Debug().Str("job", name).Str("spec", spec).Msg("job registered")
	return nil
}

// Start arms every registered job. Idempotent while running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	s.c = cron.New(cron.WithParser(s.parser))
	for i := range s.defs {
		d := &s.defs[i]
		eid, err := s.c.AddFunc(d.spec, func() { s.tick(d) })
		if err != nil {
			s.c = nil
			s.runCancel()
			s.runCancel = nil
			return fmt.Errorf("arm job %s: %w", d.name, err)
		}
		d.entryID = eid
	}
	s.c.Start()
	s.log.Info().Int("jobs", len(s.defs)).Msg("scheduler started")
	return nil
}

// Stop prevents new ticks and waits for in-flight runs until ctx expires.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	cancel := s.runCancel
	s.c = nil
	s.runCancel = nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	start := time.Now()
	stopped := c.Stop()
	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info().Dur("took", time.Since(start)).Msg("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn().Msg("shutdown deadline hit; cancelling in-flight runs")
		if cancel != nil {
			cancel()
		}
		<-done
	}
	if cancel != nil {
		cancel()
	}
}

// tick is one trigger firing. Each tick runs on its own goroutine (cron
// does that); the per-job state keeps two runs of the same job from
// overlapping.
func (s *Service) tick(d *jobDef) {
	d.state.mu.Lock()
	if d.state.running {
		d.state.mu.Unlock()
		s.log.Debug().Str("job", d.name).Msg("tick skipped (previous run still running)")
		return
	}
	d.state.running = true
	d.state.mu.Unlock()
	s.inflight.Add(1)
	defer func() {
		d.state.mu.Lock()
		d.state.running = false
		d.state.mu.Unlock()
		s.inflight.Done()
	}()

	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()
	if ctx == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("job", d.name).Interface("panic", r).Str("stack", string(debug.Stack())).Msg("panic in job")
		}
	}()

	start := time.Now()
	s.log.Debug().Str("job", d.name).Msg("job started")
	if err := d.run(ctx); err != nil {
		s.log.Error().Err(err).Str("job", d.name).Dur("took", time.Since(start)).Msg("job failed")
		return
	}
	s.log.Debug().Str("job", d.name).Dur("took", time.Since(start)).Msg("job finished")
}

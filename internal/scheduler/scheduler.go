// Package scheduler re-runs template seeding and the archival sweep on a
// cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"parishtasks/internal/model"
	"parishtasks/internal/seeder"
)

// DefaultSpec runs maintenance every night shortly after midnight.
const DefaultSpec = "5 0 * * *"

// runTimeout bounds one maintenance run.
const runTimeout = 2 * time.Minute

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Engine is the part of the task service the scheduler drives.
type Engine interface {
	SeedTemplates(ctx context.Context, originType *model.OriginType) (seeder.Result, error)
	SweepArchive(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron   *cron.Cron
	spec   string
	engine Engine
	logger *slog.Logger
}

// ParseSpec parses a 5-field cron expression or a descriptor such as
// "@daily".
func ParseSpec(spec string) (cron.Schedule, error) {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron %q: %w", spec, err)
	}
	return schedule, nil
}

// New registers the maintenance job under spec. Overlapping runs are
// skipped.
func New(spec string, engine Engine, loc *time.Location, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s := &Scheduler{cron: c, spec: spec, engine: engine, logger: logger}
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule maintenance %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled maintenance failed", "error", err)
	}
}

// RunOnce seeds every enabled origin type, then archives past-due work.
// The sweep runs even when seeding fails.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	res, seedErr := s.engine.SeedTemplates(ctx, nil)
	if seedErr == nil {
		s.logger.Info("scheduled seeding done", "created", res.Created, "skipped", res.Skipped, "removed", res.Removed)
	}
	archived, sweepErr := s.engine.SweepArchive(ctx)
	if sweepErr == nil {
		s.logger.Info("scheduled archival done", "archived", archived)
	}

	switch {
	case seedErr != nil:
		return fmt.Errorf("seed: %w", seedErr)
	case sweepErr != nil:
		return fmt.Errorf("sweep: %w", sweepErr)
	}
	return nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
}

// Stop halts the schedule and waits for a running job to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
	s.logger.Info("scheduler stopped")
}

// Next returns the next run time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(t)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}

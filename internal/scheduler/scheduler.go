package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"jobhub/internal/ingest"

	"github.com/robfig/cron/v3"
)

// Runner is the coordinator surface the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// Scheduler triggers ingestion runs on a cron spec. A tick that fires
// while a run is still in flight is skipped, not queued.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	logger  *log.Logger
	timeout time.Duration

	inFlight atomic.Bool
}

func New(spec string, runner Runner, timeout time.Duration, logger *log.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("nil runner")
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	s := &Scheduler{
		cron:    cron.New(),
		runner:  runner,
		logger:  logger,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	if !s.inFlight.CompareAndSwap(false, true) {
		if s.logger != nil {
			s.logger.Printf("scheduler: previous ingestion run still in flight, skipping tick")
		}
		return
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.runner.Run(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("scheduler: ingestion run failed to start: %v", err)
		}
		return
	}
	if s.logger != nil {
		s.logger.Printf("scheduler: ingestion run done processed=%d duplicates=%d errors=%d scraped=%d",
			report.Processed, report.Duplicates, report.Failed, report.Scraped)
	}
}

package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobhub/internal/ingest"
)

type blockingRunner struct {
	calls   atomic.Int32
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context) (*ingest.Report, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	return &ingest.Report{Success: true}, nil
}

func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New("not a cron spec", &blockingRunner{}, 0, nil); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
	if _, err := New("@hourly", nil, 0, nil); err == nil {
		t.Fatalf("expected error for nil runner")
	}
}

func TestTickSkipsOverlappingRun(t *testing.T) {
	runner := &blockingRunner{release: make(chan struct{})}
	s, err := New("@hourly", runner, time.Minute, nil)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.tick()
	}()

	// Wait for the first tick to be in flight, then fire a second one.
	for i := 0; i < 100 && runner.calls.Load() == 0; i++ {
		time.Sleep(time.Millisecond)
	}
	s.tick()

	close(runner.release)
	wg.Wait()

	if got := runner.calls.Load(); got != 1 {
		t.Fatalf("expected overlapping tick skipped, runner called %d times", got)
	}
}

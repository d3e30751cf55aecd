package ingest

import (
	"context"
	"sync"
)

type task func(ctx context.Context)

// workerPool runs listing-processing tasks with bounded parallelism.
// Tasks record their own outcome in the report builder, so the pool only
// tracks completion.
type workerPool struct {
	workers int
	tasks   chan task
	wg      sync.WaitGroup
}

func newWorkerPool(workers, buffer int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &workerPool{
		workers: workers,
		tasks:   make(chan task, buffer),
	}
}

// submit enqueues a task unless the run has been cancelled.
func (p *workerPool) submit(ctx context.Context, t task) bool {
	if p == nil || t == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case p.tasks <- t:
		return true
	}
}

func (p *workerPool) close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// run starts the workers and returns a channel that closes when every
// submitted task has finished.
func (p *workerPool) run(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if p == nil {
		close(done)
		return done
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					t(ctx)
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(done)
	}()

	return done
}

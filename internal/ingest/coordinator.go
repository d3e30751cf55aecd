package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"jobhub/internal/catalog"
)

// ErrStoreUnreachable wraps the only failure that aborts a run: the
// persistence layer cannot be reached at all.
var ErrStoreUnreachable = errors.New("catalog store unreachable")

// Coordinator orchestrates a full ingestion run: all adapters fetch
// concurrently, their listings fan in to a bounded worker pool, and each
// listing independently walks dedup -> resolution -> insert. A listing
// failure never aborts the run; a failed listing's URL is never
// persisted, so the next run simply retries it.
type Coordinator struct {
	store    catalog.Store
	guard    *DedupGuard
	resolver *Resolver
	adapters []SourceAdapter
	workers  int
	logger   *log.Logger
}

func NewCoordinator(store catalog.Store, guard *DedupGuard, resolver *Resolver, adapters []SourceAdapter, workers int, logger *log.Logger) *Coordinator {
	if workers <= 0 {
		workers = 4
	}
	return &Coordinator{
		store:    store,
		guard:    guard,
		resolver: resolver,
		adapters: adapters,
		workers:  workers,
		logger:   logger,
	}
}

// Run executes one ingestion run. The returned error is non-nil only
// when the run could not start; every listing-level outcome is folded
// into the report instead.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	if c == nil || c.store == nil {
		return nil, fmt.Errorf("nil coordinator/store")
	}

	if err := c.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}

	rb := newReportBuilder()

	pool := newWorkerPool(c.workers, c.workers*2)
	done := pool.run(ctx)

	var adapterWG sync.WaitGroup
	for _, a := range c.adapters {
		a := a
		adapterWG.Add(1)
		go func() {
			defer adapterWG.Done()

			res, err := a.Fetch(ctx)
			if err != nil {
				rb.sourceFailed(a.Name(), err)
				if c.logger != nil {
					c.logger.Printf("ingest source=%s fetch error=%v", a.Name(), err)
				}
				return
			}
			rb.sourceSucceeded(a.Name(), res)
			if c.logger != nil {
				c.logger.Printf("ingest source=%s listings=%d raw=%d", a.Name(), len(res.Listings), res.RawScraped)
			}

			for _, l := range res.Listings {
				l := l
				if !pool.submit(ctx, func(ctx context.Context) {
					c.processListing(ctx, l, rb)
				}) {
					return
				}
			}
		}()
	}

	adapterWG.Wait()
	pool.close()

	select {
	case <-done:
	case <-ctx.Done():
		// Cancelled mid-run: already-persisted listings stay valid and
		// the partial report is still returned.
	}

	return rb.finish(), nil
}

func (c *Coordinator) processListing(ctx context.Context, l RawListing, rb *reportBuilder) {
	exists, err := c.guard.Exists(ctx, l.SourceURL)
	if err != nil {
		rb.failed(ReasonDedupCheck)
		c.logListing(l, "dedup check", err)
		return
	}
	if exists {
		rb.duplicate()
		return
	}

	companyID, err := c.resolver.ResolveCompany(ctx, l.CompanyName)
	if err != nil {
		rb.failed(ReasonCompanyResolution)
		c.logListing(l, "company resolution", err)
		return
	}

	locationID, err := c.resolver.ResolveLocation(ctx, l.LocationName, l.SourceWebsite)
	if err != nil {
		rb.failed(ReasonLocationResolution)
		c.logListing(l, "location resolution", err)
		return
	}

	categoryID, err := c.resolver.ResolveCategory(ctx, l.CategoryName)
	if err != nil {
		rb.failed(ReasonCategoryNotFound)
		c.logListing(l, "category resolution", err)
		return
	}

	rec := catalog.JobRecord{
		Title:          l.Title,
		Description:    l.Description,
		CompanyID:      companyID,
		LocationID:     locationID,
		CategoryID:     categoryID,
		SourceURL:      l.SourceURL,
		SourceWebsite:  l.SourceWebsite,
		EmploymentType: l.EmploymentType,
		SalaryMin:      l.SalaryMin,
		SalaryMax:      l.SalaryMax,
		PostedDate:     l.PostedDate,
		IsActive:       true,
	}

	if err := c.store.InsertJob(ctx, rec); err != nil {
		if errors.Is(err, catalog.ErrDuplicateJob) {
			// Lost an insert race on source_url; benign idempotence.
			rb.duplicate()
			c.guard.MarkIngested(ctx, l.SourceURL)
			return
		}
		rb.failed(ReasonInsertFailed)
		c.logListing(l, "insert", err)
		return
	}

	rb.inserted()
	c.guard.MarkIngested(ctx, l.SourceURL)
}

func (c *Coordinator) logListing(l RawListing, step string, err error) {
	if c == nil || c.logger == nil {
		return
	}
	c.logger.Printf("ingest listing url=%s source=%s step=%s error=%v", l.SourceURL, l.SourceWebsite, step, err)
}

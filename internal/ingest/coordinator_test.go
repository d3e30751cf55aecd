package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jobhub/internal/catalog"
)

func testListing(url, title, company, category string) RawListing {
	return RawListing{
		Title:         title,
		CompanyName:   company,
		LocationName:  "Singapore",
		CategoryName:  category,
		SourceURL:     url,
		SourceWebsite: "jobstreet",
	}
}

func newTestCoordinator(store *catalog.MemoryStore, adapters ...SourceAdapter) *Coordinator {
	return NewCoordinator(
		store,
		NewDedupGuard(store, nil),
		NewResolver(store),
		adapters,
		3,
		nil,
	)
}

func seededStore() *catalog.MemoryStore {
	store := catalog.NewMemoryStore()
	store.SeedCategory("Technology")
	store.SeedCategory("Marketing")
	return store
}

func checkConservation(t *testing.T, r *Report) {
	t.Helper()
	if r.Processed+r.Duplicates+r.Failed != r.Scraped {
		t.Fatalf("counters do not reconcile: processed=%d duplicates=%d failed=%d scraped=%d",
			r.Processed, r.Duplicates, r.Failed, r.Scraped)
	}
}

func TestRunSkipsAlreadyIngestedURL(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	// U1 is already in the catalog from an earlier run.
	pre := catalog.JobRecord{Title: "Old", SourceURL: "https://example.com/job/u1", SourceWebsite: "jobstreet", IsActive: true}
	if err := store.InsertJob(ctx, pre); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	adapterA := &StaticAdapter{SourceName: "a", Result: FetchResult{Listings: []RawListing{
		testListing("https://example.com/job/u1", "Software Engineer", "Acme Pte Ltd", "Technology"),
	}}}
	adapterB := &StaticAdapter{SourceName: "b", Result: FetchResult{Listings: []RawListing{
		testListing("https://example.com/job/u2", "Marketing Manager", "Myanmar Marketing Co", "Marketing"),
	}}}

	c := newTestCoordinator(store, adapterA, adapterB)

	report, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if report.Processed != 1 || report.Duplicates != 1 || report.Scraped != 2 {
		t.Fatalf("expected processed=1 skipped=1 scraped=2, got %+v", report)
	}
	checkConservation(t, report)

	// Re-running with identical input: everything is a duplicate.
	report2, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if report2.Processed != 0 || report2.Duplicates != 2 || report2.Scraped != 2 {
		t.Fatalf("expected processed=0 skipped=2 scraped=2 on rerun, got %+v", report2)
	}
	checkConservation(t, report2)
}

func TestRunIdempotentCompanyResolution(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	mk := func(n int) *StaticAdapter {
		return &StaticAdapter{SourceName: "a", Result: FetchResult{Listings: []RawListing{
			testListing(fmt.Sprintf("https://example.com/job/%d", n), "Engineer", "Acme Pte Ltd", "Technology"),
		}}}
	}

	// Two separate runs ingest different listings from the same company.
	if _, err := newTestCoordinator(store, mk(1)).Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := newTestCoordinator(store, mk(2)).Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if store.CompanyCount() != 1 {
		t.Fatalf("expected exactly one company row across runs, got %d", store.CompanyCount())
	}
	jobs := store.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 job records, got %d", len(jobs))
	}
	if jobs[0].CompanyID != jobs[1].CompanyID {
		t.Fatalf("expected both records to reference the same company")
	}
}

func TestRunAdapterIsolation(t *testing.T) {
	store := seededStore()

	failing := &StaticAdapter{SourceName: "down", Err: errors.New("connection refused")}
	healthy := &StaticAdapter{SourceName: "up", Result: FetchResult{Listings: []RawListing{
		testListing("https://example.com/job/10", "Engineer", "Acme", "Technology"),
		testListing("https://example.com/job/11", "Analyst", "Data Insights", "Technology"),
	}}}

	c := newTestCoordinator(store, failing, healthy)

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if report.Scraped != 2 {
		t.Fatalf("scraped should reflect only the healthy adapter, got %d", report.Scraped)
	}
	if report.Processed != 2 {
		t.Fatalf("expected healthy adapter's listings processed, got %d", report.Processed)
	}
	checkConservation(t, report)

	var foundFailure bool
	for _, src := range report.Sources {
		if src.Name == "down" && src.Error != "" {
			foundFailure = true
		}
	}
	if !foundFailure {
		t.Fatalf("expected failed source recorded in report, got %+v", report.Sources)
	}
}

func TestRunCategoryClosure(t *testing.T) {
	store := seededStore()

	a := &StaticAdapter{SourceName: "a", Result: FetchResult{Listings: []RawListing{
		testListing("https://example.com/job/20", "Astronaut", "Space Co", "Spaceflight"),
	}}}
	c := newTestCoordinator(store, a)

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected 1 failure, got %d", report.Failed)
	}
	if report.Reasons[ReasonCategoryNotFound] != 1 {
		t.Fatalf("expected category_not_found tally, got %+v", report.Reasons)
	}
	if len(store.Jobs()) != 0 {
		t.Fatalf("listing with unknown category must not be persisted")
	}
	checkConservation(t, report)
}

func TestRunMixedOutcomesConserveCounters(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	pre := catalog.JobRecord{Title: "Old", SourceURL: "https://example.com/job/dup", SourceWebsite: "jobstreet", IsActive: true}
	if err := store.InsertJob(ctx, pre); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	a := &StaticAdapter{SourceName: "a", Result: FetchResult{Listings: []RawListing{
		testListing("https://example.com/job/ok", "Engineer", "Acme", "Technology"),
		testListing("https://example.com/job/dup", "Engineer", "Acme", "Technology"),
		testListing("https://example.com/job/badcat", "Chef", "Bistro", "Culinary"),
	}, RawScraped: 5}}
	c := newTestCoordinator(store, a)

	report, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if report.Scraped != 3 {
		t.Fatalf("expected scraped=3, got %d", report.Scraped)
	}
	if report.RawScraped != 5 {
		t.Fatalf("expected raw_scraped=5, got %d", report.RawScraped)
	}
	if report.Processed != 1 || report.Duplicates != 1 || report.Failed != 1 {
		t.Fatalf("unexpected counters %+v", report)
	}
	checkConservation(t, report)
}

func TestRunZeroListingsIsSuccess(t *testing.T) {
	store := seededStore()
	c := newTestCoordinator(store, &StaticAdapter{SourceName: "empty"})

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !report.Success {
		t.Fatalf("zero-listing run must still be a success")
	}
	if report.Scraped != 0 || report.Processed != 0 {
		t.Fatalf("expected empty counters, got %+v", report)
	}
	if report.Message == "" {
		t.Fatalf("expected a human-readable message")
	}
}

func TestRunStoreUnreachableAborts(t *testing.T) {
	store := seededStore()
	store.SetPingError(errors.New("dial tcp: connection refused"))

	c := newTestCoordinator(store, &StaticAdapter{SourceName: "a"})

	if _, err := c.Run(context.Background()); !errors.Is(err, ErrStoreUnreachable) {
		t.Fatalf("expected ErrStoreUnreachable, got %v", err)
	}
}

func TestRunInsertConflictCountsAsDuplicate(t *testing.T) {
	// Two adapters emit the same URL within one run: one insert wins, the
	// other collides on the unique constraint and is counted skipped.
	store := seededStore()

	l := testListing("https://example.com/job/race", "Engineer", "Acme", "Technology")
	a := &StaticAdapter{SourceName: "a", Result: FetchResult{Listings: []RawListing{l}}}
	b := &StaticAdapter{SourceName: "b", Result: FetchResult{Listings: []RawListing{l}}}

	c := newTestCoordinator(store, a, b)

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if report.Processed+report.Duplicates != 2 || report.Failed != 0 {
		t.Fatalf("conflict must read as duplicate, got %+v", report)
	}
	if report.Processed != 1 {
		t.Fatalf("expected exactly one insert, got %d", report.Processed)
	}
	if len(store.Jobs()) != 1 {
		t.Fatalf("expected one record for the shared url, got %d", len(store.Jobs()))
	}
	checkConservation(t, report)
}

package ingest

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Failure reason keys tallied in the report.
const (
	ReasonDedupCheck         = "dedup_check_failed"
	ReasonCompanyResolution  = "company_resolution_failed"
	ReasonLocationResolution = "location_resolution_failed"
	ReasonCategoryNotFound   = "category_not_found"
	ReasonInsertFailed       = "insert_failed"
)

// SourceOutcome is the per-adapter slice of a run: how many listings the
// source contributed, or why it contributed none.
type SourceOutcome struct {
	Name       string `json:"name"`
	Listings   int    `json:"listings"`
	RawScraped int    `json:"raw_scraped"`
	Error      string `json:"error,omitempty"`
}

// Report is the sole contract with the caller. Scraped counts listings
// that entered processing; Processed + Duplicates + Failed always equals
// Scraped. RawScraped is the pre-filter container total across sources.
type Report struct {
	Success    bool            `json:"success"`
	Processed  int             `json:"processed"`
	Duplicates int             `json:"skipped_duplicates"`
	Failed     int             `json:"errors"`
	Scraped    int             `json:"scraped"`
	RawScraped int             `json:"raw_scraped"`
	Reasons    map[string]int  `json:"failure_reasons,omitempty"`
	Sources    []SourceOutcome `json:"sources"`
	Message    string          `json:"message"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// reportBuilder accumulates counters from concurrently processed
// listings and adapter goroutines.
type reportBuilder struct {
	mu sync.Mutex
	r  Report
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{
		r: Report{
			Reasons:   map[string]int{},
			Sources:   []SourceOutcome{},
			StartedAt: time.Now().UTC(),
		},
	}
}

func (b *reportBuilder) sourceSucceeded(name string, res FetchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r.Scraped += len(res.Listings)
	b.r.RawScraped += res.RawScraped
	b.r.Sources = append(b.r.Sources, SourceOutcome{
		Name:       name,
		Listings:   len(res.Listings),
		RawScraped: res.RawScraped,
	})
}

func (b *reportBuilder) sourceFailed(name string, err error) {
	msg := "fetch failed"
	if err != nil {
		msg = err.Error()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r.Sources = append(b.r.Sources, SourceOutcome{Name: name, Error: msg})
}

func (b *reportBuilder) inserted() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r.Processed++
}

func (b *reportBuilder) duplicate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r.Duplicates++
}

func (b *reportBuilder) failed(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r.Failed++
	b.r.Reasons[reason]++
}

func (b *reportBuilder) finish() *Report {
	b.mu.Lock()
	defer b.mu.Unlock()

	sort.Slice(b.r.Sources, func(i, j int) bool {
		return b.r.Sources[i].Name < b.r.Sources[j].Name
	})

	b.r.Success = true
	b.r.FinishedAt = time.Now().UTC()
	b.r.Message = buildMessage(b.r)

	out := b.r
	// Detach the map so the caller owns the returned report.
	out.Reasons = make(map[string]int, len(b.r.Reasons))
	for k, v := range b.r.Reasons {
		out.Reasons[k] = v
	}
	return &out
}

func buildMessage(r Report) string {
	parts := []string{
		fmt.Sprintf("processed %d of %d scraped listings", r.Processed, r.Scraped),
		fmt.Sprintf("%d duplicates skipped", r.Duplicates),
		fmt.Sprintf("%d errors", r.Failed),
	}
	return strings.Join(parts, ", ")
}

package ingest

import (
	"context"
)

// Client identity sent by the network-backed adapters.
const adapterUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 JobHubBot/0.1"

// FetchResult is what one adapter contributes to a run. RawScraped counts
// listing containers observed in the markup before validation filtering,
// so the report can expose the pre-filter total alongside the processed
// listings.
type FetchResult struct {
	Listings   []RawListing
	RawScraped int
}

// SourceAdapter fetches one external site's search page and parses it
// into raw listings. An error return is a soft failure: the coordinator
// records it against the source and carries on with the other adapters.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context) (FetchResult, error)
}

// StaticAdapter serves a fixed result set. Tests and local development
// use it in place of a network-backed adapter.
type StaticAdapter struct {
	SourceName string
	Result     FetchResult
	Err        error
}

func (a *StaticAdapter) Name() string {
	if a == nil || a.SourceName == "" {
		return "static"
	}
	return a.SourceName
}

func (a *StaticAdapter) Fetch(ctx context.Context) (FetchResult, error) {
	if a == nil {
		return FetchResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return FetchResult{}, err
	}
	if a.Err != nil {
		return FetchResult{}, a.Err
	}
	res := a.Result
	if res.RawScraped < len(res.Listings) {
		res.RawScraped = len(res.Listings)
	}
	return res, nil
}

var _ SourceAdapter = (*StaticAdapter)(nil)

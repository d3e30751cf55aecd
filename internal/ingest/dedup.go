package ingest

import (
	"context"
	"fmt"
	"strings"

	"jobhub/internal/catalog"
)

// SeenCache is an optional fast path in front of the catalog's
// source_url lookup. Misses always fall through to the store, so a cold
// or unavailable cache only costs a query, never correctness.
type SeenCache interface {
	SeenURL(ctx context.Context, sourceURL string) bool
	MarkSeen(ctx context.Context, sourceURL string)
}

// DedupGuard decides whether a listing's source URL is already in the
// catalog before any resolver work is spent on it.
type DedupGuard struct {
	store catalog.Store
	cache SeenCache
}

func NewDedupGuard(store catalog.Store, cache SeenCache) *DedupGuard {
	return &DedupGuard{store: store, cache: cache}
}

func (g *DedupGuard) Exists(ctx context.Context, sourceURL string) (bool, error) {
	if g == nil || g.store == nil {
		return false, fmt.Errorf("nil guard/store")
	}
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return false, fmt.Errorf("empty source url")
	}

	if g.cache != nil && g.cache.SeenURL(ctx, sourceURL) {
		return true, nil
	}

	exists, err := g.store.JobExistsBySourceURL(ctx, sourceURL)
	if err != nil {
		return false, err
	}
	if exists && g.cache != nil {
		g.cache.MarkSeen(ctx, sourceURL)
	}
	return exists, nil
}

// MarkIngested records a URL that was just inserted, or that collided on
// the unique constraint, so repeat sightings within the cache TTL skip
// the store lookup.
func (g *DedupGuard) MarkIngested(ctx context.Context, sourceURL string) {
	if g == nil || g.cache == nil {
		return
	}
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return
	}
	g.cache.MarkSeen(ctx, sourceURL)
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobhub/internal/catalog"

	"github.com/google/uuid"
)

// ErrCategoryNotFound marks a listing whose category has no row in the
// curated job_categories set. Categories are never auto-created.
var ErrCategoryNotFound = errors.New("job category not found")

// Resolver maps free-text company/location/category names to stable
// catalog identifiers. Company and Location are created on first
// sighting; the store's conflict discipline guarantees at most one row
// per normalized name even when concurrent listings race on the same
// key.
type Resolver struct {
	store catalog.Store
}

func NewResolver(store catalog.Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) ResolveCompany(ctx context.Context, name string) (uuid.UUID, error) {
	if r == nil || r.store == nil {
		return uuid.Nil, fmt.Errorf("nil resolver/store")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("empty company name")
	}

	id, ok, err := r.store.FindCompanyByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	if ok {
		return id, nil
	}
	// CreateCompany re-reads after a conflict, so a lost race still
	// yields the winner's identifier.
	return r.store.CreateCompany(ctx, name)
}

// ResolveLocation resolves by city. State and country are inferred from
// the source site only when the row is first created; later sightings of
// the same city reuse the existing row unchanged.
func (r *Resolver) ResolveLocation(ctx context.Context, city, sourceWebsite string) (uuid.UUID, error) {
	if r == nil || r.store == nil {
		return uuid.Nil, fmt.Errorf("nil resolver/store")
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return uuid.Nil, fmt.Errorf("empty city")
	}

	id, ok, err := r.store.FindLocationByCity(ctx, city)
	if err != nil {
		return uuid.Nil, err
	}
	if ok {
		return id, nil
	}

	state, country := inferGeo(city, sourceWebsite)
	return r.store.CreateLocation(ctx, city, state, country)
}

func (r *Resolver) ResolveCategory(ctx context.Context, name string) (uuid.UUID, error) {
	if r == nil || r.store == nil {
		return uuid.Nil, fmt.Errorf("nil resolver/store")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: empty name", ErrCategoryNotFound)
	}

	id, ok, err := r.store.FindCategoryByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return id, nil
}

func inferGeo(city, sourceWebsite string) (state, country string) {
	switch strings.ToLower(strings.TrimSpace(sourceWebsite)) {
	case "jobstreet":
		return "Singapore", "Singapore"
	case "joimyanmar":
		return strings.TrimSpace(city) + " Region", "Myanmar"
	default:
		return "", ""
	}
}

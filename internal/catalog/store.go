package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateJob is returned by InsertJob when another record already
	// holds the same source URL. Callers treat it as "already ingested".
	ErrDuplicateJob = errors.New("job already exists for source url")
)

// Store is the persistence boundary of the ingestion pipeline. It only
// ever inserts into companies/locations/jobs and only reads job_categories.
type Store interface {
	Ping(ctx context.Context) error

	FindCompanyByName(ctx context.Context, name string) (uuid.UUID, bool, error)
	// CreateCompany is conflict-safe: racing creators for the same
	// normalized name all end up with the identifier of a single row.
	CreateCompany(ctx context.Context, name string) (uuid.UUID, error)

	FindLocationByCity(ctx context.Context, city string) (uuid.UUID, bool, error)
	CreateLocation(ctx context.Context, city, state, country string) (uuid.UUID, error)

	FindCategoryByName(ctx context.Context, name string) (uuid.UUID, bool, error)

	JobExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error)
	InsertJob(ctx context.Context, rec JobRecord) error
}

package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Company is created on first sighting of a new company name and never
// mutated by the ingestion pipeline afterwards.
type Company struct {
	ID   uuid.UUID
	Name string
}

// Location is keyed by city; state and country are inferred from the
// source site when the row is first created and not re-derived later.
type Location struct {
	ID      uuid.UUID
	City    string
	State   string
	Country string
}

// JobCategory rows are externally curated. The pipeline only reads them.
type JobCategory struct {
	ID   uuid.UUID
	Name string
}

// JobRecord is the persisted, fully-resolved representation of a posting.
// SourceURL carries a unique constraint; a record is created exactly once
// per distinct source URL and never updated by subsequent runs.
type JobRecord struct {
	ID             uuid.UUID
	Title          string
	Description    string
	CompanyID      uuid.UUID
	LocationID     uuid.UUID
	CategoryID     uuid.UUID
	SourceURL      string
	SourceWebsite  string
	EmploymentType string
	SalaryMin      *float64
	SalaryMax      *float64
	PostedDate     *time.Time
	IsActive       bool
}

package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore mirrors the conflict semantics of PostgresStore with
// mutex-guarded maps. It backs tests and local development without a
// database.
type MemoryStore struct {
	mu sync.Mutex

	companies  map[string]uuid.UUID // lowercase name -> id
	locations  map[string]Location  // lowercase city -> row
	categories map[string]uuid.UUID // lowercase name -> id
	jobs       map[string]JobRecord // source url -> record

	pingErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies:  map[string]uuid.UUID{},
		locations:  map[string]Location{},
		categories: map[string]uuid.UUID{},
		jobs:       map[string]JobRecord{},
	}
}

// SetPingError makes Ping fail, simulating an unreachable store.
func (s *MemoryStore) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *MemoryStore) FindCompanyByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.companies[normKey(name)]
	return id, ok, nil
}

func (s *MemoryStore) CreateCompany(ctx context.Context, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("empty company name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normKey(name)
	if id, ok := s.companies[key]; ok {
		return id, nil
	}
	id := uuid.New()
	s.companies[key] = id
	return id, nil
}

func (s *MemoryStore) FindLocationByCity(ctx context.Context, city string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[normKey(city)]
	return loc.ID, ok, nil
}

func (s *MemoryStore) CreateLocation(ctx context.Context, city, state, country string) (uuid.UUID, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return uuid.Nil, fmt.Errorf("empty city")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normKey(city)
	if loc, ok := s.locations[key]; ok {
		return loc.ID, nil
	}
	loc := Location{ID: uuid.New(), City: city, State: strings.TrimSpace(state), Country: strings.TrimSpace(country)}
	s.locations[key] = loc
	return loc.ID, nil
}

func (s *MemoryStore) FindCategoryByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.categories[normKey(name)]
	return id, ok, nil
}

// SeedCategory registers a curated category, mirroring the database seeder.
func (s *MemoryStore) SeedCategory(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normKey(name)
	if id, ok := s.categories[key]; ok {
		return id
	}
	id := uuid.New()
	s.categories[key] = id
	return id
}

func (s *MemoryStore) JobExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[strings.TrimSpace(sourceURL)]
	return ok, nil
}

func (s *MemoryStore) InsertJob(ctx context.Context, rec JobRecord) error {
	url := strings.TrimSpace(rec.SourceURL)
	if url == "" {
		return fmt.Errorf("empty source url")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[url]; ok {
		return ErrDuplicateJob
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.jobs[url] = rec
	return nil
}

// Jobs returns a snapshot of all persisted records.
func (s *MemoryStore) Jobs() []JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobRecord, 0, len(s.jobs))
	for _, rec := range s.jobs {
		out = append(out, rec)
	}
	return out
}

// CompanyCount reports distinct company rows.
func (s *MemoryStore) CompanyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies)
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var _ Store = (*MemoryStore)(nil)

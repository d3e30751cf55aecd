package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobhub/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil store/db")
	}
	return s.db.Ping(ctx)
}

func (s *PostgresStore) FindCompanyByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findOne(ctx, `SELECT id FROM companies WHERE lower(name) = lower($1) LIMIT 1`, strings.TrimSpace(name))
}

func (s *PostgresStore) CreateCompany(ctx context.Context, name string) (uuid.UUID, error) {
	if s == nil || s.db == nil {
		return uuid.Nil, fmt.Errorf("nil store/db")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("empty company name")
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO companies (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT (lower(name)) DO NOTHING`,
		name,
	)
	if err != nil && !isUniqueViolation(err) {
		return uuid.Nil, err
	}

	id, ok, err := s.FindCompanyByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("company %q not found after insert", name)
	}
	return id, nil
}

func (s *PostgresStore) FindLocationByCity(ctx context.Context, city string) (uuid.UUID, bool, error) {
	return s.findOne(ctx, `SELECT id FROM locations WHERE lower(city) = lower($1) LIMIT 1`, strings.TrimSpace(city))
}

func (s *PostgresStore) CreateLocation(ctx context.Context, city, state, country string) (uuid.UUID, error) {
	if s == nil || s.db == nil {
		return uuid.Nil, fmt.Errorf("nil store/db")
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return uuid.Nil, fmt.Errorf("empty city")
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO locations (id, city, state, country) VALUES (gen_random_uuid(), $1, $2, $3) ON CONFLICT (lower(city)) DO NOTHING`,
		city, nullableText(state), nullableText(country),
	)
	if err != nil && !isUniqueViolation(err) {
		return uuid.Nil, err
	}

	id, ok, err := s.FindLocationByCity(ctx, city)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("location %q not found after insert", city)
	}
	return id, nil
}

func (s *PostgresStore) FindCategoryByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findOne(ctx, `SELECT id FROM job_categories WHERE lower(name) = lower($1) LIMIT 1`, strings.TrimSpace(name))
}

func (s *PostgresStore) JobExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("nil store/db")
	}
	var exists bool
	row := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE source_url = $1)`, strings.TrimSpace(sourceURL))
	if err := row.Scan(&exists); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (s *PostgresStore) InsertJob(ctx context.Context, rec JobRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil store/db")
	}
	if strings.TrimSpace(rec.SourceURL) == "" {
		return fmt.Errorf("empty source url")
	}
	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO jobs (
			id, title, description, company_id, location_id, category_id,
			source_url, source_website, employment_type, salary_min, salary_max,
			posted_date, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		id,
		strings.TrimSpace(rec.Title),
		nullableText(rec.Description),
		rec.CompanyID,
		rec.LocationID,
		rec.CategoryID,
		strings.TrimSpace(rec.SourceURL),
		strings.TrimSpace(rec.SourceWebsite),
		nullableText(rec.EmploymentType),
		rec.SalaryMin,
		rec.SalaryMax,
		rec.PostedDate,
		rec.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateJob
		}
		return err
	}
	return nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, key string) (uuid.UUID, bool, error) {
	if s == nil || s.db == nil {
		return uuid.Nil, false, fmt.Errorf("nil store/db")
	}
	if key == "" {
		return uuid.Nil, false, nil
	}
	var id uuid.UUID
	row := s.db.QueryRow(ctx, query, key)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullableText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

var _ Store = (*PostgresStore)(nil)

package seeder

import (
	"context"
	"fmt"

	"jobhub/internal/database"
)

// JobCategoriesSeeder installs the curated category set. The ingestion
// pipeline never creates categories, so a listing naming anything
// outside this set is rejected during resolution.
type JobCategoriesSeeder struct{}

func (JobCategoriesSeeder) Name() string { return "job_categories" }

func (JobCategoriesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "job_categories", "id", "name", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	names := []string{
		"Technology",
		"Marketing",
		"Finance",
		"Healthcare",
		"Education",
		"Engineering",
		"Sales",
		"Administration",
	}

	for _, name := range names {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO job_categories (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT (name) DO NOTHING`,
			name,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreInsertJobDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := JobRecord{Title: "Engineer", SourceURL: "https://example.com/job/1", SourceWebsite: "jobstreet"}
	if err := s.InsertJob(ctx, rec); err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if err := s.InsertJob(ctx, rec); !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}
	if len(s.Jobs()) != 1 {
		t.Fatalf("expected one record, got %d", len(s.Jobs()))
	}
}

func TestMemoryStoreCompanyIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a, err := s.CreateCompany(ctx, "Acme Pte Ltd")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	b, err := s.CreateCompany(ctx, "ACME PTE LTD")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if a != b {
		t.Fatalf("expected normalized name to map to one row")
	}

	id, ok, err := s.FindCompanyByName(ctx, "acme pte ltd")
	if err != nil || !ok || id != a {
		t.Fatalf("find mismatch: id=%s ok=%v err=%v", id, ok, err)
	}
}

func TestMemoryStoreCategoryReadOnly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, _ := s.FindCategoryByName(ctx, "Technology"); ok {
		t.Fatalf("expected empty category set")
	}
	id := s.SeedCategory("Technology")
	got, ok, err := s.FindCategoryByName(ctx, "technology")
	if err != nil || !ok || got != id {
		t.Fatalf("find mismatch: id=%s ok=%v err=%v", got, ok, err)
	}
}

func TestMemoryStoreEmptyKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateCompany(ctx, "  "); err == nil {
		t.Fatalf("expected error for empty company name")
	}
	if _, err := s.CreateLocation(ctx, "", "x", "y"); err == nil {
		t.Fatalf("expected error for empty city")
	}
	if err := s.InsertJob(ctx, JobRecord{Title: "x"}); err == nil {
		t.Fatalf("expected error for empty source url")
	}
}

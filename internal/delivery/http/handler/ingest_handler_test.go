package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"jobhub/internal/ingest"

	"github.com/gofiber/fiber/v3"
)

type stubRunner struct {
	report *ingest.Report
	err    error
}

func (s *stubRunner) Run(ctx context.Context) (*ingest.Report, error) {
	return s.report, s.err
}

type stubCache struct {
	stored map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{stored: map[string][]byte{}}
}

func (c *stubCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, ok := c.stored[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *stubCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.stored[key] = b
	return nil
}

func newTestApp(h *IngestHandler) *fiber.App {
	app := fiber.New()
	h.RegisterRoutes(app.Group("/api/v1/ingest"))
	return app
}

func TestIngestRunReturnsReport(t *testing.T) {
	report := &ingest.Report{
		Success:    true,
		Processed:  2,
		Duplicates: 1,
		Failed:     1,
		Scraped:    4,
		Message:    "processed 2 of 4 scraped listings, 1 duplicates skipped, 1 errors",
	}
	cache := newStubCache()
	app := newTestApp(NewIngestHandler(&stubRunner{report: report}, cache, nil))

	req := httptest.NewRequest("POST", "/api/v1/ingest/run", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if got["success"] != true {
		t.Fatalf("expected success=true, got %v", got["success"])
	}
	if got["processed"] != float64(2) {
		t.Fatalf("expected processed=2, got %v", got["processed"])
	}
	if got["errors"] != float64(1) {
		t.Fatalf("expected errors=1, got %v", got["errors"])
	}
	if got["scraped"] != float64(4) {
		t.Fatalf("expected scraped=4, got %v", got["scraped"])
	}
	if got["message"] == "" {
		t.Fatalf("expected non-empty message")
	}

	if _, ok := cache.stored[lastReportCacheKey]; !ok {
		t.Fatalf("expected report cached under %q", lastReportCacheKey)
	}
}

func TestIngestRunStoreUnreachableReturns500(t *testing.T) {
	runner := &stubRunner{err: ingest.ErrStoreUnreachable}
	app := newTestApp(NewIngestHandler(runner, nil, nil))

	req := httptest.NewRequest("POST", "/api/v1/ingest/run", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["success"] != false {
		t.Fatalf("expected success=false, got %v", got["success"])
	}
}

func TestIngestLast(t *testing.T) {
	cache := newStubCache()
	h := NewIngestHandler(&stubRunner{err: errors.New("unused")}, cache, nil)
	app := newTestApp(h)

	// Nothing cached yet.
	req := httptest.NewRequest("GET", "/api/v1/ingest/last", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %d", resp.StatusCode)
	}

	_ = cache.SetJSON(context.Background(), lastReportCacheKey, &ingest.Report{Success: true, Processed: 3}, time.Hour)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/ingest/last", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report ingest.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Processed != 3 {
		t.Fatalf("expected cached report, got %+v", report)
	}
}

package handler

import (
	"context"
	"errors"
	"log"
	"time"

	"jobhub/internal/ingest"
	"jobhub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const lastReportCacheKey = "ingest:last_report"

// IngestRunner is what the handler needs from the coordinator.
type IngestRunner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// ReportCache retains the most recent run report between requests.
type ReportCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type IngestHandler struct {
	runner  IngestRunner
	cache   ReportCache
	logger  *log.Logger
	timeout time.Duration
}

func NewIngestHandler(runner IngestRunner, cache ReportCache, logger *log.Logger) *IngestHandler {
	return &IngestHandler{
		runner:  runner,
		cache:   cache,
		logger:  logger,
		timeout: 5 * time.Minute,
	}
}

func (h *IngestHandler) RegisterRoutes(r fiber.Router) {
	if h == nil || r == nil {
		return
	}
	r.Post("/run", h.Run)
	r.Get("/last", h.Last)
}

// Run triggers one ingestion run. Listing-level failures come back inside
// the 200 report; a 500 means the run could not start at all.
func (h *IngestHandler) Run(c fiber.Ctx) error {
	if h == nil || h.runner == nil {
		return response.Error(c, fiber.StatusInternalServerError, "ingestion not configured", nil)
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	report, err := h.runner.Run(ctx)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("ingest run failed to start: %v", err)
		}
		status := fiber.StatusInternalServerError
		msg := "ingestion run failed to start"
		if errors.Is(err, ingest.ErrStoreUnreachable) {
			msg = "catalog store unreachable"
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, lastReportCacheKey, report, 24*time.Hour); err != nil && h.logger != nil {
			h.logger.Printf("cache last report: %v", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

// Last returns the most recent run report, when one is cached.
func (h *IngestHandler) Last(c fiber.Ctx) error {
	if h == nil || h.cache == nil {
		return response.Error(c, fiber.StatusNotFound, "no ingestion report available", nil)
	}

	var report ingest.Report
	found, err := h.cache.GetJSON(c.Context(), lastReportCacheKey, &report)
	if err != nil || !found {
		return response.Error(c, fiber.StatusNotFound, "no ingestion report available", nil)
	}
	return c.Status(fiber.StatusOK).JSON(report)
}

package handler

import (
	"context"

	"jobhub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
	cache pinger
}

func NewHealthHandler(store, cache pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if h == nil || app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := fiber.Map{"store": "ok", "cache": "ok"}
	status := fiber.StatusOK

	if h.store == nil {
		data["store"] = "not configured"
	} else if err := h.store.Ping(c.Context()); err != nil {
		data["store"] = "unreachable"
		status = fiber.StatusServiceUnavailable
	}

	// Cache is best-effort; its absence never degrades health.
	if h.cache == nil {
		data["cache"] = "not configured"
	} else if err := h.cache.Ping(c.Context()); err != nil {
		data["cache"] = "unavailable"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "degraded", data)
	}
	return response.Success(c, status, response.MessageOK, data)
}

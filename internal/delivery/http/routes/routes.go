package routes

import (
	"jobhub/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	ingest *handler.IngestHandler
}

func NewRegistry(health *handler.HealthHandler, ingest *handler.IngestHandler) *Registry {
	return &Registry{health: health, ingest: ingest}
}

func (r *Registry) Register(app *fiber.App) {
	if r == nil || app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.ingest.RegisterRoutes(v1.Group("/ingest"))
}

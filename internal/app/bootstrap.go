package app

import (
	"fmt"
	"strings"

	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap assembles the HTTP surface on top of an initialized
// container.
func Bootstrap(c *Container) (*App, error) {
	if c == nil {
		return nil, fmt.Errorf("nil container")
	}

	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	f.Use(middleware.NewCORSMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())

	ingestHandler := handler.NewIngestHandler(c.Coordinator, c.Cache, c.Logger)
	healthHandler := handler.NewHealthHandler(c.Store, c.Cache)

	routes.NewRegistry(healthHandler, ingestHandler).Register(f)

	return &App{Fiber: f}, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

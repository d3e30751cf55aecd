package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// CORSMiddleware mirrors the permissive policy the original browser
// clients expect: any origin may trigger a run or read reports.
type CORSMiddleware struct{}

func NewCORSMiddleware() *CORSMiddleware {
	return &CORSMiddleware{}
}

func (m *CORSMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

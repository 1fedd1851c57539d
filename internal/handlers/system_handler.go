package handlers

import (
	"context"
	"time"

	"tms/internal/seed"
	"tms/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Prober checks the upstream product catalog on demand.
type Prober interface {
	Probe(ctx context.Context) (*seed.ProbeResult, error)
}

// SystemHandler serves the service info, health and debug endpoints.
type SystemHandler struct {
	queries    *services.QueryService
	prober     Prober
	dataSource string
	log        *zap.Logger
}

func NewSystemHandler(queries *services.QueryService, prober Prober, dataSource string, log *zap.Logger) *SystemHandler {
	return &SystemHandler{queries: queries, prober: prober, dataSource: dataSource, log: log}
}

func (h *SystemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/health", h.HandleHealth)
	router.Get("/debug/fetch-products", h.HandleFetchProducts)
}

func (h *SystemHandler) HandleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":    "TMS GraphQL API",
		"graphql":    "/graphql",
		"dataSource": h.dataSource,
	})
}

func (h *SystemHandler) HandleHealth(c *fiber.Ctx) error {
	count, err := h.queries.Count(c.UserContext())
	if err != nil {
		h.log.Error("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"time":      time.Now().Format(time.RFC3339),
		"shipments": count,
	})
}

// HandleFetchProducts reports what the product catalog currently returns.
func (h *SystemHandler) HandleFetchProducts(c *fiber.Ctx) error {
	result, err := h.prober.Probe(c.UserContext())
	if err != nil {
		msg := err.Error()
		if len(msg) > 500 {
			msg = msg[:500]
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": msg,
		})
	}
	return c.JSON(result)
}

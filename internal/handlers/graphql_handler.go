package handlers

import (
	"encoding/json"

	"tms/internal/graph"
	"tms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GraphQLHandler serves the GraphQL endpoint.
type GraphQLHandler struct {
	exec *graph.Executor
	log  *zap.Logger
}

func NewGraphQLHandler(exec *graph.Executor, log *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{exec: exec, log: log}
}

// RegisterRoutes registers POST and GET /graphql on router.
func (h *GraphQLHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/graphql", h.HandlePost)
	router.Get("/graphql", h.HandleGet)
}

// HandlePost executes a JSON encoded request body.
func (h *GraphQLHandler) HandlePost(c *fiber.Ctx) error {
	var req graph.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	return h.execute(c, req)
}

// HandleGet executes a request carried in the query string. Mutations
// are only accepted over POST.
func (h *GraphQLHandler) HandleGet(c *fiber.Ctx) error {
	req := graph.Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid variables",
				"error":   err.Error(),
			})
		}
	}
	if graph.IsMutation(req) {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"message": "Mutations must be sent with POST",
		})
	}
	return h.execute(c, req)
}

func (h *GraphQLHandler) execute(c *fiber.Ctx, req graph.Request) error {
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Must provide query string",
		})
	}

	result := h.exec.Execute(c.UserContext(), middleware.Token(c), req)
	if result.HasErrors() {
		h.log.Debug("graphql request returned errors",
			zap.String("operation", req.OperationName),
			zap.Any("errors", result.Errors))
	}
	return c.JSON(result)
}

package compare

import (
	"github.com/devandanger/firebase-utils/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons in service mode.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/v1/compare")
	group.Get("/document/+", h.HandleCompareDocument)
	group.Get("/collection/+", h.HandleCompareCollection)
}

// HandleCompareDocument compares a single document across both projects
// and returns the difference list.
func (h *Handler) HandleCompareDocument(c *fiber.Ctx) error {
	path := c.Params("+")
	l := logger.WithRequestID(h.service.log, c)

	result, err := h.service.CompareDocument(c.Context(), path)
	if err != nil {
		l.Error("Document comparison failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

// HandleCompareCollection compares a collection across both projects and
// returns the added/removed/changed report.
func (h *Handler) HandleCompareCollection(c *fiber.Ctx) error {
	path := c.Params("+")
	l := logger.WithRequestID(h.service.log, c)

	result, err := h.service.CompareCollection(c.Context(), path)
	if err != nil {
		l.Error("Collection comparison failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

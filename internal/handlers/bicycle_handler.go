package handlers

import (
	"amethyst/internal/services"
	"amethyst/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BicycleHandler handles HTTP requests for the bicycle catalog.
type BicycleHandler struct {
	service *services.CatalogService
}

// NewBicycleHandler creates a new BicycleHandler.
func NewBicycleHandler(service *services.CatalogService) *BicycleHandler {
	return &BicycleHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *BicycleHandler) RegisterRoutes(router fiber.Router) {
	bicycleRoutes := router.Group("/bicycle")
	bicycleRoutes.Get("/", h.HandleGetBicycles)
	bicycleRoutes.Get("/:id", h.HandleGetBicycleByID)
}

// HandleGetBicycles lists the catalog, optionally filtered by ?bicycleType=.
func (h *BicycleHandler) HandleGetBicycles(c *fiber.Ctx) error {
	bicycles, err := h.service.ListBicycles(c.UserContext(), c.Query("bicycleType"))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch bicycles")
	}
	return response.Success(c, bicycles, "Bicycles retrieved successfully")
}

// HandleGetBicycleByID retrieves a single bicycle by its ID.
func (h *BicycleHandler) HandleGetBicycleByID(c *fiber.Ctx) error {
	bicycle, err := h.service.GetBicycle(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch bicycle details")
	}
	return response.Success(c, bicycle, "Bicycle details retrieved successfully")
}

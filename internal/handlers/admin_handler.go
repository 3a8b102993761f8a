package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/services"
)

// AdminHandler handles administrative HTTP requests. Every route is gated on
// an admin token.
type AdminHandler struct {
	authService *services.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// RegisterRoutes registers the admin routes behind the auth and admin
// middleware.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	adminRoutes := router.Group("/admin", auth, admin)
	adminRoutes.Get("/all/users", h.HandleListUsers)
}

// HandleListUsers retrieves one page of all registered users. Password hashes
// never serialize, so the listing only exposes account metadata.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page, perPage, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	users, pagination, err := h.authService.ListUsers(page, perPage)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

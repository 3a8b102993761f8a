package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/services"
)

// OrderHandler handles HTTP requests for orders, including the order
// placement endpoint that converts the cart into an order.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes behind the auth middleware. The
// status update route is additionally admin-gated.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	orders := router.Group("/orders", auth)
	orders.Post("/create_order", h.HandleCreateOrder)
	orders.Delete("/cancel_order", h.HandleCancelOrder)
	orders.Patch("/:id/status", admin, h.HandleUpdateOrderStatus)

	orderItems := router.Group("/orderItems", auth)
	orderItems.Post("/add_order_item", h.HandlePlaceOrder)
}

// HandlePlaceOrder places an order: every cart item becomes an order item,
// product stocks are decremented, and the cart is deleted, all in one
// transaction.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	order, err := h.service.PlaceOrder(email)
	if err != nil {
		log.Printf("Error placing order for %s: %v", email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrCartNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Cart not found for user %s. Cart is empty or does not exist", email),
			})
		case errors.Is(err, repositories.ErrCartEmpty):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Cart is empty for user %s. Add items to cart before placing an order", email),
			})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order placement failed due to insufficient stock",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to place order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  fmt.Sprintf("Order placed successfully for %s", email),
		"order_id": order.ID,
	})
}

// HandleCreateOrder ensures the user has an open order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	order, err := h.service.CreateOrder(email)
	if err != nil {
		log.Printf("Error creating order for %s: %v", email, err)
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to create an order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order created successfully",
		"order_id": order.ID,
	})
}

// HandleCancelOrder cancels the user's open order together with its items.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	if err := h.service.CancelOrder(email); err != nil {
		log.Printf("Error cancelling order for %s: %v", email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found for user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to delete an order",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}

// HandleUpdateOrderStatus transitions an open order to fulfilled or
// cancelled.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update",
		})
	}

	if err := h.service.UpdateOrderStatus(orderID, updateData.Status); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found or already closed",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}

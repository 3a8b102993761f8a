package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/services"
)

// CartHandler handles HTTP requests for carts and cart items. All routes are
// scoped to the authenticated user.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes behind the auth middleware. The
// all-carts listing is additionally admin-gated.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	carts := router.Group("/carts", auth)
	carts.Post("/create_cart", h.HandleCreateCart)
	carts.Delete("/delete_cart", h.HandleDeleteCart)
	carts.Get("/cart_items/all", h.HandleListCartItems)
	carts.Get("/cart/all", admin, h.HandleListCarts)
	carts.Delete("/cart/delete/:id", h.HandleDeleteCartItem)

	cartItems := router.Group("/cartItems", auth)
	cartItems.Post("/add", h.HandleAddCartItem)
}

// HandleListCarts retrieves one page of all carts in the store.
func (h *CartHandler) HandleListCarts(c *fiber.Ctx) error {
	page, perPage, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	carts, pagination, err := h.service.ListCarts(page, perPage)
	if err != nil {
		log.Printf("Error listing carts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to retrieve all carts",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"carts":      carts,
		"pagination": pagination,
	})
}

// HandleCreateCart explicitly creates a cart for the authenticated user.
func (h *CartHandler) HandleCreateCart(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	cart, err := h.service.CreateCart(email)
	if err != nil {
		log.Printf("Error creating cart for %s: %v", email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrDuplicateCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cart already exists for this user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to save created cart",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleDeleteCart deletes the user's cart with all of its items.
func (h *CartHandler) HandleDeleteCart(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	if err := h.service.DeleteCart(email); err != nil {
		log.Printf("Error deleting cart for %s: %v", email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrCartNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart not found for user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to delete cart",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cart deleted successfully",
	})
}

// AddCartItemRequest represents the request body for adding a product to the
// cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddCartItem adds a product to the user's cart, creating the cart
// lazily. Adding a product already in the cart merges the quantities.
func (h *CartHandler) HandleAddCartItem(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	item, created, err := h.service.AddItem(email, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart for %s: %v", req.ProductID, email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Quantity exceeds available stock or stock is empty",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to add product to cart",
			"error":   err.Error(),
		})
	}

	if !created {
		return c.JSON(fiber.Map{
			"message":   "Product quantity updated in cart",
			"cart_item": item,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Product added to cart",
		"cart_item": item,
	})
}

// HandleListCartItems retrieves one page of the user's cart items.
func (h *CartHandler) HandleListCartItems(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)

	page, perPage, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	items, pagination, err := h.service.ListItems(email, page, perPage)
	if err != nil {
		log.Printf("Error listing cart items for %s: %v", email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrCartNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart not found for user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred while trying to retrieve all items in the cart",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"cart_items": items,
		"pagination": pagination,
	})
}

// HandleDeleteCartItem deletes a single line item from the user's cart.
func (h *CartHandler) HandleDeleteCartItem(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	itemID := c.Params("id")

	if err := h.service.DeleteItem(email, itemID); err != nil {
		log.Printf("Error deleting cart item %s for %s: %v", itemID, email, err)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, repositories.ErrCartNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart not found for user",
			})
		case errors.Is(err, repositories.ErrCartItemNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart item not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete cart item",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cart item deleted successfully",
	})
}

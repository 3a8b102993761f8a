package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/services"
)

// Listing limits shared by the product and cart item endpoints.
const (
	defaultPerPage = 5
	maxPerPage     = 50
)

// ProductHandler handles HTTP requests for the product catalog. Reads are
// public; mutations require an admin token.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. auth and admin gate the
// mutating endpoints.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	products := router.Group("/products")
	products.Post("/product", auth, admin, h.HandleCreateProduct)
	products.Get("/product", h.HandleListProducts)
	products.Get("/product/:id", h.HandleGetProductByID)
	products.Put("/product/:id", auth, admin, h.HandleUpdateProduct)
	products.Delete("/product/:id", auth, admin, h.HandleDeleteProduct)
}

// HandleCreateProduct adds a new phone product to the store.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		if errors.Is(err, repositories.ErrDuplicateProduct) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Product already exists. Try updating the quantity instead",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleListProducts retrieves one page of products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, perPage, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	products, pagination, err := h.service.ListProducts(page, perPage)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": pagination,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleUpdateProduct applies a partial update to a product. A quantity
// update restocks the product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	var req models.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.UpdateProduct(productID, &req)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update product",
			"error":   err.Error(),
		})
	}

	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// paginationParams reads and bounds the page and per_page query parameters.
func paginationParams(c *fiber.Ctx) (page, perPage int, err error) {
	page = c.QueryInt("page", 1)
	perPage = c.QueryInt("per_page", defaultPerPage)
	if page < 1 {
		return 0, 0, errors.New("Page number must be greater than 0")
	}
	if perPage < 1 {
		return 0, 0, errors.New("Per page must be greater than 0")
	}
	if perPage > maxPerPage {
		return 0, 0, errors.New("Per page limit exceeded")
	}
	return page, perPage, nil
}

package services

import (
	"errors"
	"fmt"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ListProducts retrieves one page of products.
func (s *ProductService) ListProducts(page, perPage int) ([]models.Product, models.Pagination, error) {
	products, total, err := s.repo.List(page, perPage)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return products, models.NewPagination(page, perPage, total), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product. The product name is unique; the
// initial stock is the restock quantity added to whatever stock was supplied.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if existing, err := s.repo.GetByName(product.Name); err == nil && existing != nil {
		return fmt.Errorf("product '%s': %w", product.Name, repositories.ErrDuplicateProduct)
	}
	product.Stock += product.Quantity
	return s.repo.Create(product)
}

// UpdateProduct applies a partial update to an existing product. Updating the
// quantity restocks the product: the new quantity is added to the stock.
func (s *ProductService) UpdateProduct(id string, req *models.ProductUpdateRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
		product.Stock += *req.Quantity
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	err := s.repo.Delete(id)
	if err != nil && !errors.Is(err, repositories.ErrProductNotFound) {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return err
}

package repositories

import "github.com/GOlukorede/PhoneStore-REST-API/internal/models"

// ProductRepository defines the interface for product data access.
//
// DecrementStock must be atomic with respect to concurrent decrements of the
// same product: it performs a conditional update (stock = stock - n only when
// stock >= n), so two concurrent order placements can never oversubscribe
// stock. A failed condition returns ErrInsufficientStock; a product that does
// not exist at all returns ErrProductNotFound.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	GetByName(name string) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id string) error
	List(page, perPage int) ([]models.Product, int64, error)
	DecrementStock(id string, quantity int) error
}

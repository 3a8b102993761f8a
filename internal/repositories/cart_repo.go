package repositories

import "github.com/GOlukorede/PhoneStore-REST-API/internal/models"

// CartRepository defines the interface for cart and cart item data access.
// GetByUserID loads the cart with its items in insertion order.
type CartRepository interface {
	Create(cart *models.Cart) error
	GetByUserID(userID string) (*models.Cart, error)
	ListAll(page, perPage int) ([]models.Cart, int64, error)
	Delete(cartID string) error

	AddItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	GetItem(cartID, itemID string) (*models.CartItem, error)
	GetItemByProduct(cartID, productID string) (*models.CartItem, error)
	ListItems(cartID string, page, perPage int) ([]models.CartItem, int64, error)
	DeleteItem(cartID, itemID string) error
}

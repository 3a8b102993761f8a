package repositories

import "github.com/GOlukorede/PhoneStore-REST-API/internal/models"

// OrderRepository defines the interface for order data access.
//
// A user has at most one open order at a time; fulfilled and cancelled orders
// are never reused by a later checkout. UpdateStatus only transitions away
// from open and returns ErrOrderNotFound when no open order matches.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetOpenByUserID(userID string) (*models.Order, error)
	AddItem(item *models.OrderItem) error
	ListItems(orderID string) ([]models.OrderItem, error)
	UpdateStatus(id, status string) error
	Delete(orderID string) error
}

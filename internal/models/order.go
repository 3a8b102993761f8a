package models

import "time"

// Order status values. An order starts open and ends either fulfilled or
// cancelled; cancellation is only possible while the order is open.
const (
	OrderStatusOpen      = "open"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// Order is a persisted record of a checkout, owned by exactly one user.
type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string      `json:"user_id" gorm:"index;type:varchar(36)"`
	Status    string      `json:"status" gorm:"type:varchar(20);default:open"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a line item within an order. Quantity and price are copied
// from the cart item at placement time; the price is an immutable snapshot
// and is never recomputed from the live product price.
type OrderItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

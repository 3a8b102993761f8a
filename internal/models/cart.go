package models

import "time"

// Cart is a user's pending selection of products before checkout. A user has
// at most one cart at a time; it is created lazily on the first add-to-cart
// and deleted wholesale (items included) when an order is placed.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a line item within a cart. At most one item exists per
// (cart, product) pair; adding the same product again increments the quantity
// and recomputes the price. Price is unit price x quantity at add/update time.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "gorm.io/gorm"

// Product represents a phone product in the store. The category is one of a
// fixed set of phone brands, enforced by the oneof validation tag.
// Quantity is the amount added by the last restock; Stock is the number of
// units currently available. Creating a product or updating its quantity adds
// the quantity to the stock. Stock never goes below zero: order placement
// decrements it with a conditional update that fails instead of oversubscribing.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(255)" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" gorm:"type:varchar(50)" validate:"required,oneof=iphone samsung huawei tecno infinix itel nokia sony lg htc blackberry motorola google xiaomi oppo vivo oneplus redmi realme lenovo"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductUpdateRequest carries a partial product update. Only non-nil fields
// are applied; a quantity update restocks the product (stock += quantity).
type ProductUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=iphone samsung huawei tecno infinix itel nokia sony lg htc blackberry motorola google xiaomi oppo vivo oneplus redmi realme lenovo"`
}

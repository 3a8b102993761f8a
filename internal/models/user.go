package models

import "gorm.io/gorm"

// User represents a customer or administrator of the store.
// Administrators are regular users with IsAdmin set; there is no separate
// admin entity.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	IsAdmin    bool   `json:"is_admin" gorm:"default:false"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

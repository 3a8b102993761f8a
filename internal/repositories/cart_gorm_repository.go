package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Create creates a new cart in the database.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByUserID retrieves a user's cart with its items in insertion order.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at")
		}).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// ListAll retrieves one page of all carts, items included, with the total
// row count. Used by the admin cart listing.
func (r *GORMCartRepository) ListAll(page, perPage int) ([]models.Cart, int64, error) {
	var total int64
	if err := r.db.Model(&models.Cart{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count carts: %w", err)
	}

	var carts []models.Cart
	offset := (page - 1) * perPage
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at")
		}).
		Order("created_at").Offset(offset).Limit(perPage).
		Find(&carts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list carts: %w", err)
	}
	return carts, total, nil
}

// Delete removes a cart and all of its items. The item delete runs first so a
// failure leaves the cart (and the foreign keys) intact; callers that need
// atomicity run this inside Store.InTransaction.
func (r *GORMCartRepository) Delete(cartID string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to delete cart items for cart %s: %w", cartID, err)
	}
	res := r.db.Delete(&models.Cart{}, "id = ?", cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart %s: %w", cartID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// AddItem appends a new line item to a cart.
func (r *GORMCartRepository) AddItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateItem saves changed quantity and price on an existing line item.
func (r *GORMCartRepository) UpdateItem(item *models.CartItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// GetItem retrieves a line item by ID, scoped to the given cart.
func (r *GORMCartRepository) GetItem(cartID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// GetItemByProduct retrieves the line item for a product within a cart, used
// to merge quantities instead of duplicating the (cart, product) pair.
func (r *GORMCartRepository) GetItemByProduct(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item for product %s: %w", productID, err)
	}
	return &item, nil
}

// ListItems retrieves one page of a cart's items with the total row count.
func (r *GORMCartRepository) ListItems(cartID string, page, perPage int) ([]models.CartItem, int64, error) {
	var total int64
	if err := r.db.Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	var items []models.CartItem
	offset := (page - 1) * perPage
	err := r.db.Where("cart_id = ?", cartID).
		Order("created_at").Offset(offset).Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, total, nil
}

// DeleteItem removes a single line item from a cart.
func (r *GORMCartRepository) DeleteItem(cartID, itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

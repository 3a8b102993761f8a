package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusOpen
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetOpenByUserID retrieves the user's open order, if any. Fulfilled and
// cancelled orders are never returned, so a later checkout gets a new order.
func (r *GORMOrderRepository) GetOpenByUserID(userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at")
		}).
		First(&order, "user_id = ? AND status = ?", userID, models.OrderStatusOpen).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get open order for user %s: %w", userID, err)
	}
	return &order, nil
}

// AddItem appends a line item to an order. Stock is not touched here.
func (r *GORMOrderRepository) AddItem(item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add order item: %w", err)
	}
	return nil
}

// ListItems retrieves all line items of an order in insertion order.
func (r *GORMOrderRepository) ListItems(orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("created_at").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	return items, nil
}

// UpdateStatus transitions an order away from open. The WHERE clause pins the
// current status to open so the transition can only happen once.
func (r *GORMOrderRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusOpen).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes an order and all of its items. Callers that need atomicity
// run this inside Store.InTransaction.
func (r *GORMOrderRepository) Delete(orderID string) error {
	if err := r.db.Delete(&models.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
		return fmt.Errorf("failed to delete order items for order %s: %w", orderID, err)
	}
	res := r.db.Delete(&models.Order{}, "id = ?", orderID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

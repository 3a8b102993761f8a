package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
	"github.com/GOlukorede/PhoneStore-REST-API/pkg/rabbitmq"
)

// OrderService handles order creation, cancellation and the order placement
// workflow that turns a cart into an order.
type OrderService struct {
	store    repositories.Store
	mqClient *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil, in which
// case no events are published.
func NewOrderService(store repositories.Store, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{store: store, mqClient: mqClient}
}

// PlaceOrder converts the user's cart into an order:
//
//   - every cart item becomes an order item carrying the quantity and the
//     price snapshot taken when the item was added to the cart;
//   - each referenced product has its stock decremented by the item quantity
//     (a product deleted since the add keeps its order item but is skipped);
//   - the cart and its items are removed.
//
// All of it runs in one transaction: a failure at any point, including a
// product running out of stock, rolls back every order item, every stock
// decrement, and the cart deletion. Items are processed in insertion order.
func (s *OrderService) PlaceOrder(email string) (*models.Order, error) {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.Carts().GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, repositories.ErrCartEmpty
	}

	var order *models.Order
	err = s.store.InTransaction(func(tx repositories.Store) error {
		var err error
		order, err = getOrCreateOpenOrder(tx, user.ID)
		if err != nil {
			return err
		}

		for _, item := range cart.Items {
			orderItem := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if err := tx.Orders().AddItem(orderItem); err != nil {
				return err
			}

			_, err := tx.Products().GetByID(item.ProductID)
			if errors.Is(err, repositories.ErrProductNotFound) {
				// The product was deleted after it went into the cart. The
				// order keeps the snapshot; there is no stock to adjust.
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Products().DecrementStock(item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
		}

		return tx.Carts().Delete(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderPlaced(order, user.Email)
	return order, nil
}

// CreateOrder ensures the user has an open order, creating one if necessary.
func (s *OrderService) CreateOrder(email string) (*models.Order, error) {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return nil, err
	}
	var order *models.Order
	err = s.store.InTransaction(func(tx repositories.Store) error {
		order, err = getOrCreateOpenOrder(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels the user's open order and removes it together with its
// items. Fulfilled and cancelled orders cannot be cancelled.
func (s *OrderService) CancelOrder(email string) error {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return err
	}
	order, err := s.store.Orders().GetOpenByUserID(user.ID)
	if err != nil {
		return err
	}
	return s.store.InTransaction(func(tx repositories.Store) error {
		return tx.Orders().Delete(order.ID)
	})
}

// UpdateOrderStatus transitions an open order to fulfilled or cancelled.
func (s *OrderService) UpdateOrderStatus(orderID, status string) error {
	if status != models.OrderStatusFulfilled && status != models.OrderStatusCancelled {
		return fmt.Errorf("invalid order status: %s", status)
	}
	return s.store.Orders().UpdateStatus(orderID, status)
}

// getOrCreateOpenOrder returns the user's open order, creating one when none
// exists. Closed orders are never reused.
func getOrCreateOpenOrder(tx repositories.Store, userID string) (*models.Order, error) {
	order, err := tx.Orders().GetOpenByUserID(userID)
	if errors.Is(err, repositories.ErrOrderNotFound) {
		order = &models.Order{UserID: userID, Status: models.OrderStatusOpen}
		if err := tx.Orders().Create(order); err != nil {
			return nil, err
		}
		return order, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// publishOrderPlaced emits an order.placed event after a successful
// placement. Publishing is best effort and never fails the order.
func (s *OrderService) publishOrderPlaced(order *models.Order, email string) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	event := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"email":   email,
		"status":  order.Status,
	}
	if err := s.mqClient.PublishOrderPlaced(event); err != nil {
		log.Printf("Warning: Failed to publish order placed event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order placed event for order %s", order.ID)
	}
}

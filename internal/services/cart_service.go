package services

import (
	"errors"
	"fmt"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
)

// CartService handles business logic for carts and cart items.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{store: store}
}

// CreateCart explicitly creates a cart for the user identified by email.
// A user has at most one cart at a time.
func (s *CartService) CreateCart(email string) (*models.Cart, error) {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing, err := s.store.Carts().GetByUserID(user.ID); err == nil && existing != nil {
		return nil, repositories.ErrDuplicateCart
	}
	cart := &models.Cart{UserID: user.ID}
	if err := s.store.Carts().Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// DeleteCart removes the user's cart and all of its items. The delete is
// transactional: either the cart and every item go, or nothing does.
func (s *CartService) DeleteCart(email string) error {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return err
	}
	cart, err := s.store.Carts().GetByUserID(user.ID)
	if err != nil {
		return err
	}
	return s.store.InTransaction(func(tx repositories.Store) error {
		return tx.Carts().Delete(cart.ID)
	})
}

// AddItem adds a product to the user's cart, creating the cart lazily on the
// first add. Adding a product already in the cart increments its quantity and
// recomputes the price instead of duplicating the line item. The denormalized
// price is always quantity x current unit price at add/update time.
//
// The returned bool is true when a new line item was created, false when an
// existing one was merged.
func (s *CartService) AddItem(email, productID string, quantity int) (*models.CartItem, bool, error) {
	if quantity <= 0 {
		return nil, false, fmt.Errorf("quantity must be greater than 0")
	}
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return nil, false, err
	}

	var item *models.CartItem
	var created bool
	err = s.store.InTransaction(func(tx repositories.Store) error {
		cart, err := tx.Carts().GetByUserID(user.ID)
		if errors.Is(err, repositories.ErrCartNotFound) {
			cart = &models.Cart{UserID: user.ID}
			err = tx.Carts().Create(cart)
		}
		if err != nil {
			return err
		}

		product, err := tx.Products().GetByID(productID)
		if err != nil {
			return err
		}
		if product.Stock < quantity {
			return fmt.Errorf("product '%s': %w", product.Name, repositories.ErrInsufficientStock)
		}

		existing, err := tx.Carts().GetItemByProduct(cart.ID, productID)
		switch {
		case err == nil:
			existing.Quantity += quantity
			existing.Price = float64(existing.Quantity) * product.Price
			if err := tx.Carts().UpdateItem(existing); err != nil {
				return err
			}
			item = existing
		case errors.Is(err, repositories.ErrCartItemNotFound):
			item = &models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     float64(quantity) * product.Price,
			}
			if err := tx.Carts().AddItem(item); err != nil {
				return err
			}
			created = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

// ListCarts retrieves one page of all carts with their items. Exposed to
// administrators only.
func (s *CartService) ListCarts(page, perPage int) ([]models.Cart, models.Pagination, error) {
	carts, total, err := s.store.Carts().ListAll(page, perPage)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return carts, models.NewPagination(page, perPage, total), nil
}

// ListItems retrieves one page of the user's cart items.
func (s *CartService) ListItems(email string, page, perPage int) ([]models.CartItem, models.Pagination, error) {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	cart, err := s.store.Carts().GetByUserID(user.ID)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	items, total, err := s.store.Carts().ListItems(cart.ID, page, perPage)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return items, models.NewPagination(page, perPage, total), nil
}

// DeleteItem removes a single line item from the user's cart.
func (s *CartService) DeleteItem(email, itemID string) error {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		return err
	}
	cart, err := s.store.Carts().GetByUserID(user.ID)
	if err != nil {
		return err
	}
	return s.store.Carts().DeleteItem(cart.ID, itemID)
}

package repositories

import "errors"

// Domain errors returned by the repositories. Services and handlers match on
// these with errors.Is to decide the HTTP status instead of parsing messages.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateUser     = errors.New("username or email already registered")
	ErrDuplicateProduct  = errors.New("product already exists")
	ErrDuplicateCart     = errors.New("cart already exists for user")
)

package services_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/services"
)

func seedUser(t *testing.T, store repositories.Store, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: "hashed", IsActive: true}
	require.NoError(t, store.Users().Create(user))
	return user
}

func seedProduct(t *testing.T, store repositories.Store, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Quantity:    stock,
		Stock:       stock,
		Category:    "nokia",
	}
	require.NoError(t, store.Products().Create(product))
	return product
}

func seedCartWithItem(t *testing.T, store repositories.Store, userID string, product *models.Product, quantity int) *models.Cart {
	t.Helper()
	cart, err := store.Carts().GetByUserID(userID)
	if err != nil {
		cart = &models.Cart{UserID: userID}
		require.NoError(t, store.Carts().Create(cart))
	}
	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     float64(quantity) * product.Price,
	}
	require.NoError(t, store.Carts().AddItem(item))
	return cart
}

func TestOrderService_PlaceOrder(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "buyer", "buyer@example.com")
	product := seedProduct(t, store, "Nokia 3310", 100.0, 10)
	seedCartWithItem(t, store, user.ID, product, 2)

	order, err := service.PlaceOrder(user.Email)
	require.NoError(t, err)
	require.NotNil(t, order)

	// One order item per cart item, quantity and price snapshot carried over.
	items, err := store.Orders().ListItems(order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 200.0, items[0].Price)

	// Stock reduced by the ordered quantity.
	updated, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)

	// Cart and its items are gone.
	_, err = store.Carts().GetByUserID(user.ID)
	assert.ErrorIs(t, err, repositories.ErrCartNotFound)
}

func TestOrderService_PlaceOrder_NoCart(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "cartless", "cartless@example.com")

	_, err := service.PlaceOrder(user.Email)
	assert.ErrorIs(t, err, repositories.ErrCartNotFound)

	_, err = service.PlaceOrder("ghost@example.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "emptycart", "empty@example.com")
	cart := &models.Cart{UserID: user.ID}
	require.NoError(t, store.Carts().Create(cart))

	_, err := service.PlaceOrder(user.Email)
	assert.ErrorIs(t, err, repositories.ErrCartEmpty)

	// No order was created and the cart is untouched.
	_, err = store.Orders().GetOpenByUserID(user.ID)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
	_, err = store.Carts().GetByUserID(user.ID)
	assert.NoError(t, err)
}

func TestOrderService_PlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "rollback", "rollback@example.com")
	first := seedProduct(t, store, "Sony Xperia", 50.0, 10)
	second := seedProduct(t, store, "HTC One", 80.0, 1)

	seedCartWithItem(t, store, user.ID, first, 2)
	// More than the available stock: placement must fail on this item.
	seedCartWithItem(t, store, user.ID, second, 3)

	_, err := service.PlaceOrder(user.Email)
	require.ErrorIs(t, err, repositories.ErrInsufficientStock)

	// The first item's decrement and order item were rolled back.
	p1, err := store.Products().GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p1.Stock)
	p2, err := store.Products().GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p2.Stock)

	_, err = store.Orders().GetOpenByUserID(user.ID)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	// The cart survived with both items.
	cart, err := store.Carts().GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestOrderService_PlaceOrder_DeletedProductSkipsStock(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "orphan", "orphan@example.com")
	product := seedProduct(t, store, "LG Velvet", 40.0, 5)
	seedCartWithItem(t, store, user.ID, product, 2)

	// The product disappears after it went into the cart.
	require.NoError(t, store.Products().Delete(product.ID))

	order, err := service.PlaceOrder(user.Email)
	require.NoError(t, err)

	// The order item keeps the snapshot even though the product is gone.
	items, err := store.Orders().ListItems(order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 80.0, items[0].Price)
}

func TestOrderService_PlaceOrder_PriceSnapshot(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "snapshot", "snapshot@example.com")
	product := seedProduct(t, store, "Google Pixel", 100.0, 10)
	seedCartWithItem(t, store, user.ID, product, 1)

	// The unit price doubles after the item was added to the cart.
	product.Price = 200.0
	require.NoError(t, store.Products().Update(product))

	order, err := service.PlaceOrder(user.Email)
	require.NoError(t, err)

	items, err := store.Orders().ListItems(order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 100.0, items[0].Price, "order item price must be the cart-time snapshot")
}

func TestOrderService_PlaceOrder_ConcurrentStock(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	product := seedProduct(t, store, "OnePlus 12", 60.0, 1)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	seedCartWithItem(t, store, alice.ID, product, 1)
	seedCartWithItem(t, store, bob.ID, product, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, email := range []string{alice.Email, bob.Email} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = service.PlaceOrder(email)
		}(i, email)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two placements must fail")

	updated, err := store.Products().GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestOrderService_CreateAndCancelOrder(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "orderer", "orderer@example.com")

	order, err := service.CreateOrder(user.Email)
	require.NoError(t, err)

	// A second create reuses the open order.
	again, err := service.CreateOrder(user.Email)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)

	require.NoError(t, service.CancelOrder(user.Email))
	_, err = store.Orders().GetByID(order.ID)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	// No open order left to cancel.
	err = service.CancelOrder(user.Email)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	store := repositories.NewMemoryStore()
	service := services.NewOrderService(store, nil)

	user := seedUser(t, store, "statuser", "status@example.com")
	order, err := service.CreateOrder(user.Email)
	require.NoError(t, err)

	err = service.UpdateOrderStatus(order.ID, "shipped")
	assert.Error(t, err, "unknown status must be rejected")

	require.NoError(t, service.UpdateOrderStatus(order.ID, models.OrderStatusFulfilled))

	// A closed order cannot transition again.
	err = service.UpdateOrderStatus(order.ID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)

	// The next checkout gets a fresh order instead of reusing the closed one.
	next, err := service.CreateOrder(user.Email)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID)
}

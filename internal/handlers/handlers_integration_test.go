package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/handlers"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/middleware"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/services"
)

const testSecret = "integration-test-secret"

// setupTestApp wires the full application against a fresh in-memory SQLite
// database. Each test gets its own named database so state never leaks
// between tests.
func setupTestApp(t *testing.T, name string) (*fiber.App, repositories.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.TokenBlockListEntry{},
	))

	store := repositories.NewGormStore(db)
	authService := services.NewAuthService(store.Users(), store.Tokens(), testSecret)
	productService := services.NewProductService(store.Products())
	cartService := services.NewCartService(store)
	orderService := services.NewOrderService(store, nil)

	app := fiber.New()
	auth := middleware.AuthRequired(authService)
	admin := middleware.AdminRequired()

	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterRoutes(app)
	authHandler.RegisterProtectedRoutes(app, auth)
	handlers.NewAdminHandler(authService).RegisterRoutes(app, auth, admin)
	handlers.NewProductHandler(productService).RegisterRoutes(app, auth, admin)
	handlers.NewCartHandler(cartService).RegisterRoutes(app, auth, admin)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app, auth, admin)

	return app, store
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func registerUser(t *testing.T, app *fiber.App, username, email, password string) {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// seedAdmin creates an administrator directly in the store and returns an
// access token for them. Registration never grants the admin role, so tests
// plant admins at the repository level.
func seedAdmin(t *testing.T, app *fiber.App, store repositories.Store, email string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(&models.User{
		Username: "admin-" + email,
		Email:    email,
		Password: string(hashed),
		IsAdmin:  true,
		IsActive: true,
	}))
	return login(t, app, email, "adminpass")
}

func createProduct(t *testing.T, app *fiber.App, adminToken, name string, price float64, quantity int) string {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/products/product", adminToken, fiber.Map{
		"name":        name,
		"description": "integration test product",
		"price":       price,
		"quantity":    quantity,
		"category":    "nokia",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	app, _ := setupTestApp(t, "register_login")

	registerUser(t, app, "alice", "alice@example.com", "password123")

	// Duplicate email is rejected.
	resp := doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Missing fields fail validation.
	resp = doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"username": "bob",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	token := login(t, app, "alice@example.com", "password123")
	assert.NotEmpty(t, token)

	resp = doJSON(t, app, fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_RefreshToken(t *testing.T) {
	app, _ := setupTestApp(t, "refresh_token")

	registerUser(t, app, "refresher", "refresher@example.com", "password123")

	resp := doJSON(t, app, fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "refresher@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	refreshToken, _ := body["refresh_token"].(string)
	require.NotEmpty(t, refreshToken)

	resp = doJSON(t, app, fiber.MethodPost, "/auth/refresh", refreshToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["access_token"])

	// An access token is not accepted as a refresh token.
	accessToken, _ := body["access_token"].(string)
	resp = doJSON(t, app, fiber.MethodPost, "/auth/refresh", accessToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_AdminGate(t *testing.T) {
	app, store := setupTestApp(t, "admin_gate")

	payload := fiber.Map{
		"name":        "Nokia 3310",
		"description": "a classic",
		"price":       100.0,
		"quantity":    5,
		"category":    "nokia",
	}

	// No token.
	resp := doJSON(t, app, fiber.MethodPost, "/products/product", "", payload)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A regular user is not enough.
	registerUser(t, app, "pleb", "pleb@example.com", "password123")
	userToken := login(t, app, "pleb@example.com", "password123")
	resp = doJSON(t, app, fiber.MethodPost, "/products/product", userToken, payload)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// An admin can create, and reads stay public.
	adminToken := seedAdmin(t, app, store, "gate-admin@example.com")
	productID := createProduct(t, app, adminToken, "Nokia 3310", 100.0, 5)

	resp = doJSON(t, app, fiber.MethodGet, "/products/product/"+productID, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Nokia 3310", body["name"])
	assert.Equal(t, float64(5), body["stock"])
}

func TestIntegration_ProductValidationAndPagination(t *testing.T) {
	app, store := setupTestApp(t, "product_validation")
	adminToken := seedAdmin(t, app, store, "catalog-admin@example.com")

	// An unknown category fails validation.
	resp := doJSON(t, app, fiber.MethodPost, "/products/product", adminToken, fiber.Map{
		"name":        "Fridge",
		"description": "not a phone",
		"price":       100.0,
		"quantity":    5,
		"category":    "fridge",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A duplicate name is rejected with a restock hint.
	createProduct(t, app, adminToken, "Sony Xperia", 300.0, 5)
	resp = doJSON(t, app, fiber.MethodPost, "/products/product", adminToken, fiber.Map{
		"name":        "Sony Xperia",
		"description": "again",
		"price":       300.0,
		"quantity":    5,
		"category":    "sony",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The per_page limit is enforced.
	resp = doJSON(t, app, fiber.MethodGet, "/products/product?per_page=100", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/products/product?page=1&per_page=5", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	pagination, _ := body["pagination"].(map[string]interface{})
	require.NotNil(t, pagination)
	assert.Equal(t, float64(1), pagination["total"])
}

func TestIntegration_CartEndpoints(t *testing.T) {
	app, store := setupTestApp(t, "cart_endpoints")
	adminToken := seedAdmin(t, app, store, "cart-admin@example.com")
	productID := createProduct(t, app, adminToken, "iPhone 15", 999.0, 10)

	registerUser(t, app, "shopper", "shopper@example.com", "password123")
	token := login(t, app, "shopper@example.com", "password123")

	// Explicit cart creation; a second create is rejected.
	resp := doJSON(t, app, fiber.MethodPost, "/carts/create_cart", token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodPost, "/carts/create_cart", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// First add creates the line item, the second merges into it.
	resp = doJSON(t, app, fiber.MethodPost, "/cartItems/add", token, fiber.Map{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/cartItems/add", token, fiber.Map{
		"product_id": productID,
		"quantity":   2,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	item, _ := body["cart_item"].(map[string]interface{})
	require.NotNil(t, item)
	assert.Equal(t, float64(3), item["quantity"])
	assert.Equal(t, 2997.0, item["price"])
	itemID, _ := item["id"].(string)
	require.NotEmpty(t, itemID)

	// Asking for more than the stock is rejected.
	resp = doJSON(t, app, fiber.MethodPost, "/cartItems/add", token, fiber.Map{
		"product_id": productID,
		"quantity":   100,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Listing shows the single merged item.
	resp = doJSON(t, app, fiber.MethodGet, "/carts/cart_items/all", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	items, _ := body["cart_items"].([]interface{})
	assert.Len(t, items, 1)

	// Deleting the line item and then the cart.
	resp = doJSON(t, app, fiber.MethodDelete, "/carts/cart/delete/"+itemID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodDelete, "/carts/delete_cart", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodGet, "/carts/cart_items/all", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_OrderPlacementFlow(t *testing.T) {
	app, store := setupTestApp(t, "order_flow")
	adminToken := seedAdmin(t, app, store, "order-admin@example.com")
	productID := createProduct(t, app, adminToken, "Google Pixel", 500.0, 10)

	registerUser(t, app, "buyer", "buyer@example.com", "password123")
	token := login(t, app, "buyer@example.com", "password123")

	// Placing with no cart at all is a 404.
	resp := doJSON(t, app, fiber.MethodPost, "/orderItems/add_order_item", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/cartItems/add", token, fiber.Map{
		"product_id": productID,
		"quantity":   2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/orderItems/add_order_item", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	orderID, _ := body["order_id"].(string)
	assert.NotEmpty(t, orderID)

	// The stock went down by the ordered quantity.
	resp = doJSON(t, app, fiber.MethodGet, "/products/product/"+productID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(8), body["stock"])

	// The cart is gone, so placing again is a 404.
	resp = doJSON(t, app, fiber.MethodPost, "/orderItems/add_order_item", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// An admin fulfills the order; a second transition is rejected.
	resp = doJSON(t, app, fiber.MethodPatch, "/orders/"+orderID+"/status", adminToken, fiber.Map{
		"status": "fulfilled",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodPatch, "/orders/"+orderID+"/status", adminToken, fiber.Map{
		"status": "cancelled",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Regular users cannot touch order statuses.
	resp = doJSON(t, app, fiber.MethodPatch, "/orders/"+orderID+"/status", token, fiber.Map{
		"status": "cancelled",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_OrderPlacement_InsufficientStock(t *testing.T) {
	app, store := setupTestApp(t, "order_insufficient")
	adminToken := seedAdmin(t, app, store, "stock-admin@example.com")
	productID := createProduct(t, app, adminToken, "Xiaomi 14", 450.0, 3)

	registerUser(t, app, "hoarder", "hoarder@example.com", "password123")
	token := login(t, app, "hoarder@example.com", "password123")

	resp := doJSON(t, app, fiber.MethodPost, "/cartItems/add", token, fiber.Map{
		"product_id": productID,
		"quantity":   3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The stock drains before the order is placed.
	require.NoError(t, store.Products().DecrementStock(productID, 2))

	resp = doJSON(t, app, fiber.MethodPost, "/orderItems/add_order_item", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The failed placement left the cart and the remaining stock alone.
	resp = doJSON(t, app, fiber.MethodGet, "/carts/cart_items/all", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	items, _ := body["cart_items"].([]interface{})
	assert.Len(t, items, 1)

	resp = doJSON(t, app, fiber.MethodGet, "/products/product/"+productID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["stock"])
}

func TestIntegration_CancelOrder(t *testing.T) {
	app, _ := setupTestApp(t, "cancel_order")

	registerUser(t, app, "canceller", "canceller@example.com", "password123")
	token := login(t, app, "canceller@example.com", "password123")

	resp := doJSON(t, app, fiber.MethodPost, "/orders/create_order", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodDelete, "/orders/cancel_order", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Nothing left to cancel.
	resp = doJSON(t, app, fiber.MethodDelete, "/orders/cancel_order", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_AdminListings(t *testing.T) {
	app, store := setupTestApp(t, "admin_listings")
	adminToken := seedAdmin(t, app, store, "listings-admin@example.com")
	productID := createProduct(t, app, adminToken, "Infinix Note", 120.0, 10)

	registerUser(t, app, "watcher", "watcher@example.com", "password123")
	userToken := login(t, app, "watcher@example.com", "password123")
	resp := doJSON(t, app, fiber.MethodPost, "/cartItems/add", userToken, fiber.Map{
		"product_id": productID,
		"quantity":   2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Regular users cannot read the admin listings.
	resp = doJSON(t, app, fiber.MethodGet, "/admin/all/users", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodGet, "/carts/cart/all", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The admin sees every account, without password material.
	resp = doJSON(t, app, fiber.MethodGet, "/admin/all/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	users, _ := body["users"].([]interface{})
	require.Len(t, users, 2)
	first, _ := users[0].(map[string]interface{})
	assert.NotContains(t, first, "password")
	pagination, _ := body["pagination"].(map[string]interface{})
	require.NotNil(t, pagination)
	assert.Equal(t, float64(2), pagination["total"])

	// The admin sees every cart with its items.
	resp = doJSON(t, app, fiber.MethodGet, "/carts/cart/all", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	carts, _ := body["carts"].([]interface{})
	require.Len(t, carts, 1)
	cart, _ := carts[0].(map[string]interface{})
	items, _ := cart["items"].([]interface{})
	require.Len(t, items, 1)

	// Pagination bounds apply to the listings too.
	resp = doJSON(t, app, fiber.MethodGet, "/admin/all/users?per_page=100", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_LogoutRevokesToken(t *testing.T) {
	app, _ := setupTestApp(t, "logout_revocation")

	registerUser(t, app, "leaver", "leaver@example.com", "password123")
	token := login(t, app, "leaver@example.com", "password123")

	resp := doJSON(t, app, fiber.MethodPost, "/logout/user", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The revoked token no longer opens any protected route.
	resp = doJSON(t, app, fiber.MethodPost, "/carts/create_cart", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

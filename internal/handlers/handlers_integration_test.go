package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matyasmehes/szakdolgozat/internal/handlers"
	"github.com/matyasmehes/szakdolgozat/internal/middleware"
	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"
	"github.com/matyasmehes/szakdolgozat/internal/services"
)

// setupApp builds a Fiber app over a named in-memory SQLite database with
// all services wired and two menu items seeded.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.MenuItem{}, &models.Order{}, &models.OrderItem{}))

	userRepo := repositories.NewGORMUserRepository(db)
	menuRepo := repositories.NewGORMMenuItemRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	menuItems := []models.MenuItem{
		{Name: "Gulyásleves", Price: decimal.NewFromInt(1000)},
		{Name: "Lángos", Price: decimal.NewFromInt(500)},
	}
	for i := range menuItems {
		assert.NoError(t, menuRepo.Create(&menuItems[i]))
	}

	tokens := services.TokenConfig{
		Secret:   []byte("test_jwt_secret"),
		Issuer:   "myapp",
		Audience: "myclient",
		TTL:      time.Hour,
	}
	authService := services.NewAuthService(userRepo, tokens)
	pricingService := services.NewPricingService(menuRepo)
	orderService := services.NewOrderService(orderRepo, menuRepo, userRepo, pricingService)

	app := fiber.New()
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(api, authRequired)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, authRequired)

	return app, authService
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

func register(t *testing.T, app *fiber.App, email, password string) *http.Response {
	return doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   password,
	})
}

func login(t *testing.T, app *fiber.App, email, password string) (string, int) {
	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return "", resp.StatusCode
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	return body["token"], http.StatusOK
}

func TestRegisterLoginAndOrderLifecycle(t *testing.T) {
	app, authService := setupApp(t)

	// Register, then log in with the right and the wrong password.
	resp := register(t, app, "a@x.com", "pw1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	token, status := login(t, app, "a@x.com", "pw1")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, token)

	_, status = login(t, app, "a@x.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, status)

	// The token's subject is the freshly assigned user id.
	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	userID, err := claims.UserID()
	assert.NoError(t, err)
	assert.NotZero(t, userID)
	assert.Equal(t, "a@x.com", claims.Email)

	// Place an order: 2 × 1000 + 1 × 500 = 2500.
	resp = doJSON(t, app, http.MethodPost, "/api/order", token, map[string]interface{}{
		"customer_phone":   "+36 30 123 4567",
		"customer_address": "Fő utca 1, Budapest",
		"items": []map[string]interface{}{
			{"menu_item_id": 1, "quantity": 2},
			{"menu_item_id": 2, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var placed struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	decodeBody(t, resp, &placed)
	assert.NotZero(t, placed.Order.ID)
	assert.Equal(t, userID, placed.Order.UserID)
	assert.False(t, placed.Order.Delivered)
	assert.True(t, decimal.NewFromInt(2500).Equal(placed.Order.TotalPrice),
		"expected total 2500, got %s", placed.Order.TotalPrice)

	// The kitchen board shows the order with the customer's name.
	resp = doJSON(t, app, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var board []models.OrderSummary
	decodeBody(t, resp, &board)
	assert.Len(t, board, 1)
	assert.Equal(t, "Test User", board[0].CustomerName)
	assert.Len(t, board[0].Items, 2)

	// Complete the order; completion is idempotent.
	completeURL := fmt.Sprintf("/api/orders/%d/complete", placed.Order.ID)
	resp = doJSON(t, app, http.MethodPut, completeURL, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, completeURL, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The order is still retrievable, now delivered, and off the board.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/orders/%d", placed.Order.ID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var completed models.Order
	decodeBody(t, resp, &completed)
	assert.True(t, completed.Delivered)

	resp = doJSON(t, app, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &board)
	assert.Empty(t, board)

	// The user's order history still lists it.
	resp = doJSON(t, app, http.MethodGet, "/api/users/orders", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var history []models.Order
	decodeBody(t, resp, &history)
	assert.Len(t, history, 1)
	assert.Equal(t, placed.Order.ID, history[0].ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := setupApp(t)

	resp := register(t, app, "dup@x.com", "password1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = register(t, app, "dup@x.com", "password2")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["message"], "already in use")

	// The first account still logs in with its original password.
	_, status := login(t, app, "dup@x.com", "password1")
	assert.Equal(t, http.StatusOK, status)
	_, status = login(t, app, "dup@x.com", "password2")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMenuIsPublic(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/menuitems", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var menu []models.MenuItem
	decodeBody(t, resp, &menu)
	assert.Len(t, menu, 2)
	assert.Equal(t, "Gulyásleves", menu[0].Name)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/order", "", map[string]interface{}{
		"customer_phone":   "+36 30 123 4567",
		"customer_address": "Fő utca 1, Budapest",
		"items":            []map[string]interface{}{{"menu_item_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/users/profile", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProfileOmitsCredentialMaterial(t *testing.T) {
	app, _ := setupApp(t)

	resp := register(t, app, "profile@x.com", "password1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	token, status := login(t, app, "profile@x.com", "password1")
	assert.Equal(t, http.StatusOK, status)

	resp = doJSON(t, app, http.MethodGet, "/api/users/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var raw map[string]interface{}
	decodeBody(t, resp, &raw)
	assert.Equal(t, "profile@x.com", raw["email"])
	assert.Equal(t, "Test", raw["first_name"])
	assert.NotContains(t, raw, "password_hash")
	assert.NotContains(t, raw, "salt")
}

func TestOrderNotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/orders/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, "/api/orders/9999/complete", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/orders/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	app, _ := setupApp(t)

	resp := register(t, app, "empty@x.com", "password1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	token, status := login(t, app, "empty@x.com", "password1")
	assert.Equal(t, http.StatusOK, status)

	resp = doJSON(t, app, http.MethodPost, "/api/order", token, map[string]interface{}{
		"customer_phone":   "+36 30 123 4567",
		"customer_address": "Fő utca 1, Budapest",
		"items":            []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/order", token, map[string]interface{}{
		"customer_phone":   "+36 30 123 4567",
		"customer_address": "Fő utca 1, Budapest",
		"items":            []map[string]interface{}{{"menu_item_id": 1, "quantity": -1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

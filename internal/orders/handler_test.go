package orders

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	NewMock().Register(app)
	return app
}

func TestListOrders_Seeded(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/orders", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got []Order
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "John Doe", got[0].Customer)
}

func TestCreateOrder(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("POST", "/orders",
		strings.NewReader(`{"user_id":7,"amount":45.5,"item_name":"Paracetamol","date":"2026-08-28"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var created struct {
		Message string `json:"message"`
		Order   Order  `json:"order"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Order added", created.Message)
	assert.Equal(t, 3, created.Order.ID)
	assert.Equal(t, "User 7", created.Order.Customer)
	assert.Equal(t, "Pending", created.Order.Status)

	// The new order shows up on the next list
	resp, err = app.Test(httptest.NewRequest("GET", "/orders", nil))
	require.NoError(t, err)
	var got []Order
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got, 3)
}

func TestOrdersCORS(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("OPTIONS", "/orders", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// Package orders keeps the demo /orders endpoint from the original
// dashboard. It is a mock fixture: the list lives in memory, nothing is
// persisted, and CORS is wide open so any caller can poke it during
// development. Not a production interface.
package orders

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Order struct {
	ID       int    `json:"id"`
	Customer string `json:"customer"`
	ItemName string `json:"item_name"`
	Total    string `json:"total"`
	Status   string `json:"status"`
	Date     string `json:"date"`
}

type CreateOrderRequest struct {
	UserID   int     `json:"user_id"`
	Amount   float64 `json:"amount"`
	ItemName string  `json:"item_name"`
	Date     string  `json:"date"`
}

// Mock holds the volatile order list. Fiber serves requests concurrently,
// so the slice is guarded by a mutex.
type Mock struct {
	mu     sync.Mutex
	orders []Order
	nextID int
}

func NewMock() *Mock {
	return &Mock{
		orders: []Order{
			{ID: 1, Customer: "John Doe", ItemName: "Laptop", Total: "$120", Status: "Completed", Date: "2025-11-18"},
			{ID: 2, Customer: "Jane Smith", ItemName: "Mouse", Total: "$80", Status: "Pending", Date: "2025-11-18"},
		},
		nextID: 3,
	}
}

// Register mounts GET/POST/OPTIONS /orders with permissive CORS.
func (m *Mock) Register(app *fiber.App) {
	grp := app.Group("/orders")
	grp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	grp.Get("", m.ListHandler())
	grp.Post("", m.CreateHandler())
}

// GET /orders
func (m *Mock) ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		out := make([]Order, len(m.orders))
		copy(out, m.orders)
		return c.JSON(out)
	}
}

// POST /orders
func (m *Mock) CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		m.mu.Lock()
		order := Order{
			ID:       m.nextID,
			Customer: fmt.Sprintf("User %d", body.UserID),
			ItemName: body.ItemName,
			Total:    fmt.Sprintf("$%g", body.Amount),
			Status:   "Pending",
			Date:     body.Date,
		}
		m.nextID++
		m.orders = append(m.orders, order)
		m.mu.Unlock()

		return c.JSON(fiber.Map{
			"message": "Order added",
			"order":   order,
		})
	}
}

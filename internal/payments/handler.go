package payments

import (
	"strings"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/audit"
	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID          uint    `json:"id"`
	PaymentRef  string  `json:"payment_ref"`
	OrderRef    string  `json:"order_ref"`
	PayerName   string  `json:"payer_name"`
	PayerEmail  string  `json:"payer_email"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	Method      string  `json:"method"`
	CreatedAt   string  `json:"created_at"`
	ProcessedAt string  `json:"processed_at,omitempty"`
}

type CreatePaymentRequest struct {
	OrderRef   string  `json:"order_ref"`
	PayerName  string  `json:"payer_name"`
	PayerEmail string  `json:"payer_email"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	Method     string  `json:"method"`
}

func toPaymentResponse(p models.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:         p.ID,
		PaymentRef: p.PaymentRef,
		OrderRef:   p.OrderRef,
		PayerName:  p.PayerName,
		PayerEmail: p.PayerEmail,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     string(p.Status),
		Method:     p.Method,
		CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.ProcessedAt != nil {
		resp.ProcessedAt = p.ProcessedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func validStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentCompleted, models.PaymentPending, models.PaymentFailed, models.PaymentRefunded:
		return true
	}
	return false
}

// GET /api/payments?search=john&status=completed
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{})

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where(
				"lower(payer_name) LIKE ? OR lower(payer_email) LIKE ? OR lower(payment_ref) LIKE ? OR lower(order_ref) LIKE ?",
				like, like, like, like,
			)
		}
		if status := c.Query("status"); status != "" && status != "all" {
			if !validStatus(models.PaymentStatus(status)) {
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
			dbq = dbq.Where("status = ?", status)
		}

		var rows []models.Payment
		if err := dbq.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payments could not be listed")
		}

		resp := make([]PaymentResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, toPaymentResponse(p))
		}
		return c.JSON(resp)
	}
}

// POST /api/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.PayerName = strings.TrimSpace(body.PayerName)
		if body.PayerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Payer name is required")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
		}

		status := models.PaymentStatus(body.Status)
		if body.Status == "" {
			status = models.PaymentPending
		}
		if !validStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
		}

		currency := strings.ToUpper(strings.TrimSpace(body.Currency))
		if currency == "" {
			currency = "USD"
		}

		p := models.Payment{
			PaymentRef: "pay_" + uuid.NewString()[:8],
			OrderRef:   strings.TrimSpace(body.OrderRef),
			PayerName:  body.PayerName,
			PayerEmail: strings.TrimSpace(strings.ToLower(body.PayerEmail)),
			Amount:     body.Amount,
			Currency:   currency,
			Status:     status,
			Method:     strings.TrimSpace(body.Method),
		}
		if status == models.PaymentCompleted || status == models.PaymentRefunded {
			now := time.Now()
			p.ProcessedAt = &now
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Payment could not be created")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "payment",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Payment recorded: " + p.PaymentRef,
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(p))
	}
}

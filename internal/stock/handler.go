package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/audit"
	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStockLogRequest struct {
	MedicationID uint   `json:"medication_id"`
	Type         string `json:"type"`     // "in" or "out"
	Quantity     int    `json:"quantity"` // positive magnitude
	Reason       string `json:"reason"`
	BatchNo      string `json:"batch_no"`
	ExpiryDate   string `json:"expiry_date"` // "2026-01-31", optional
}

type StockLogResponse struct {
	ID             uint   `json:"id"`
	MedicationID   uint   `json:"medication_id"`
	MedicationName string `json:"medication_name"`
	Type           string `json:"type"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason"`
	BatchNo        string `json:"batch_no"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	CreatedAt      string `json:"created_at"`
}

func toStockLogResponse(e models.StockLog, medicationName string) StockLogResponse {
	resp := StockLogResponse{
		ID:             e.ID,
		MedicationID:   e.MedicationID,
		MedicationName: medicationName,
		Type:           string(e.Type),
		Quantity:       e.Quantity,
		Reason:         e.Reason,
		BatchNo:        e.BatchNo,
		CreatedAt:      e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.ExpiryDate != nil {
		resp.ExpiryDate = e.ExpiryDate.Format("2006-01-02")
	}
	return resp
}

// POST /api/stock-logs
func CreateStockLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockLogRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.MedicationID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "medication_id is required")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be a positive integer")
		}
		logType := models.StockLogType(body.Type)
		if logType != models.StockLogIn && logType != models.StockLogOut {
			return fiber.NewError(fiber.StatusBadRequest, "type must be 'in' or 'out'")
		}

		var expiry *time.Time
		if body.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiry_date format must be 'YYYY-MM-DD'")
			}
			expiry = &d
		}

		var med models.Medication
		if err := database.DB.First(&med, "id = ?", body.MedicationID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Medication not found")
		}

		entry, err := RecordTransaction(TransactionInput{
			MedicationID: body.MedicationID,
			Type:         logType,
			Quantity:     body.Quantity,
			Reason:       body.Reason,
			BatchNo:      body.BatchNo,
			ExpiryDate:   expiry,
		})
		if err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				return fiber.NewError(fiber.StatusConflict, "Insufficient stock for this transaction")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stock transaction could not be recorded")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "stock_log",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stock %s: %s x%d", entry.Type, med.Name, entry.Quantity),
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(toStockLogResponse(*entry, med.Name))
	}
}

// GET /api/stock-logs?medication_id=1
func ListStockLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Medication").Order("created_at desc, id desc")

		medIDStr := c.Query("medication_id")
		if medIDStr != "" {
			var medID uint
			if _, err := fmt.Sscan(medIDStr, &medID); err != nil || medID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "medication_id is invalid")
			}
			dbq = dbq.Where("medication_id = ?", medID)
		}

		var entries []models.StockLog
		if err := dbq.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock logs could not be listed")
		}

		resp := make([]StockLogResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toStockLogResponse(e, e.Medication.Name))
		}
		return c.JSON(resp)
	}
}

// GET /api/stock/levels
// Aggregated view of the whole catalog. All ledger reads complete before
// the response is built; partial results are never returned mid-aggregation.
func StockLevelsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		levels, err := ComputeLevels(time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock levels could not be computed")
		}
		return c.JSON(levels)
	}
}

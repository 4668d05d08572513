package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/audit"
	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"
	"github.com/sopheaklaing/pharmacy/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type MedicationResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	ImageURL     string `json:"image_url"`
	ReorderLevel int    `json:"reorder_level"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
	ExpiringSoon bool   `json:"expiring_soon"`
	Expired      bool   `json:"expired"`
}

type CreateMedicationRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryID   uint   `json:"category_id"`
	Unit         string `json:"unit"`
	ImageURL     string `json:"image_url"` // optional, already-hosted image
	ReorderLevel *int   `json:"reorder_level"`
	ExpiryDate   string `json:"expiry_date"` // "2026-01-31", optional
}

type UpdateMedicationRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	CategoryID   *uint   `json:"category_id"`
	Unit         *string `json:"unit"`
	ImageURL     *string `json:"image_url"`
	ReorderLevel *int    `json:"reorder_level"`
	ExpiryDate   *string `json:"expiry_date"` // empty string clears the date
}

func toMedicationResponse(m models.Medication, snap stock.Snapshot) MedicationResponse {
	resp := MedicationResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Unit:         m.Unit,
		ImageURL:     m.ImageURL,
		ReorderLevel: stock.DefaultReorderLevel,
		Quantity:     snap.Quantity,
		Status:       string(snap.Status),
		ExpiringSoon: snap.ExpiringSoon,
		Expired:      snap.Expired,
	}
	if m.Category != nil {
		resp.Category = m.Category.Name
	}
	if m.ReorderLevel != nil {
		resp.ReorderLevel = *m.ReorderLevel
	}
	if m.ExpiryDate != nil {
		resp.ExpiryDate = m.ExpiryDate.Format("2006-01-02")
	}
	return resp
}

// GET /api/medications?search=para&category=Antibiotics&status=low_stock
// The filter is a pure projection over the loaded catalog; quantities come
// from the ledger, not from the stored counter.
func ListMedicationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var meds []models.Medication
		if err := database.DB.Preload("Category").Order("name asc").Find(&meds).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medications could not be listed")
		}

		now := time.Now()
		snaps, err := stock.Snapshots(meds, now)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock levels could not be computed")
		}

		filter := stock.Filter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Status:   c.Query("status"),
		}
		filtered := filter.Apply(meds, snaps)

		resp := make([]MedicationResponse, 0, len(filtered))
		for _, m := range filtered {
			resp = append(resp, toMedicationResponse(m, snaps[m.ID]))
		}
		return c.JSON(resp)
	}
}

// GET /api/medications/:id
func GetMedicationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Medication
		if err := database.DB.Preload("Category").First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}

		var entries []models.StockLog
		if err := database.DB.Where("medication_id = ?", m.ID).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock logs could not be read")
		}

		snap := stock.ComputeSnapshot(m, entries, time.Now())
		return c.JSON(toMedicationResponse(m, snap))
	}
}

// POST /api/medications (admin only)
func CreateMedicationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMedicationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category is required")
		}
		if body.ReorderLevel != nil && *body.ReorderLevel < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Reorder level cannot be negative")
		}

		var category models.Category
		if err := database.DB.First(&category, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		var expiry *time.Time
		if body.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiry_date format must be 'YYYY-MM-DD'")
			}
			expiry = &d
		}

		m := models.Medication{
			Name:         body.Name,
			Description:  strings.TrimSpace(body.Description),
			CategoryID:   &category.ID,
			Category:     &category,
			Unit:         strings.TrimSpace(body.Unit),
			ImageURL:     strings.TrimSpace(body.ImageURL),
			ReorderLevel: body.ReorderLevel,
			ExpiryDate:   expiry,
		}

		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medication could not be created")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "medication",
			EntityID:    m.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Medication created: %s", m.Name),
			After:       m,
		})

		snap := stock.ComputeSnapshot(m, nil, time.Now())
		return c.Status(fiber.StatusCreated).JSON(toMedicationResponse(m, snap))
	}
}

// PUT /api/medications/:id (admin only)
func UpdateMedicationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Medication
		if err := database.DB.Preload("Category").First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}
		before := m

		var body UpdateMedicationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			m.Name = name
		}
		if body.Description != nil {
			m.Description = strings.TrimSpace(*body.Description)
		}
		if body.CategoryID != nil {
			var category models.Category
			if err := database.DB.First(&category, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			m.CategoryID = &category.ID
			m.Category = &category
		}
		if body.Unit != nil {
			m.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.ImageURL != nil {
			m.ImageURL = strings.TrimSpace(*body.ImageURL)
		}
		if body.ReorderLevel != nil {
			if *body.ReorderLevel < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Reorder level cannot be negative")
			}
			m.ReorderLevel = body.ReorderLevel
		}
		if body.ExpiryDate != nil {
			if *body.ExpiryDate == "" {
				m.ExpiryDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.ExpiryDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "expiry_date format must be 'YYYY-MM-DD'")
				}
				m.ExpiryDate = &d
			}
		}

		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medication could not be updated")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "medication",
			EntityID:    m.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Medication updated: %s", m.Name),
			Before:      before,
			After:       m,
		})

		var entries []models.StockLog
		if err := database.DB.Where("medication_id = ?", m.ID).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock logs could not be read")
		}
		snap := stock.ComputeSnapshot(m, entries, time.Now())
		return c.JSON(toMedicationResponse(m, snap))
	}
}

// DELETE /api/medications/:id (admin only)
func DeleteMedicationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Medication
		if err := database.DB.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}

		// Refuse while ledger entries still reference the medication; the
		// stock log is append-only and must never point at a missing row
		var count int64
		database.DB.Model(&models.StockLog{}).Where("medication_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock logs exist for this medication, it cannot be deleted")
		}

		if err := database.DB.Delete(&models.Medication{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medication could not be deleted")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "medication",
			EntityID:    m.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Medication deleted: %s", m.Name),
			Before:      m,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

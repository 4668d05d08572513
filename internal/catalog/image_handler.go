package catalog

import (
	"fmt"
	"io"

	"github.com/sopheaklaing/pharmacy/internal/audit"
	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"
	"github.com/sopheaklaing/pharmacy/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const imageBucket = "medication-images"

type ImportImageRequest struct {
	URL string `json:"url"`
}

// POST /api/medications/:id/image (admin only)
// Multipart upload of a medication photo. The medication row is only
// touched after the file is validated and stored; a failed upload aborts
// the whole operation.
func UploadMedicationImageHandler(store *storage.Local) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Medication
		if err := database.DB.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "'file' field is required")
		}
		if fileHeader.Size > storage.MaxImageSize {
			return fiber.NewError(fiber.StatusBadRequest, storage.ErrFileTooLarge.Error())
		}

		f, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File could not be read")
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File could not be read")
		}

		ext, err := storage.ValidateImage(data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		filename := storage.UniqueFilename(fileHeader.Filename, ext)
		url, err := store.Save(imageBucket, filename, data)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Image could not be stored")
		}

		before := m
		m.ImageURL = url
		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medication could not be updated")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "medication",
			EntityID:    m.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Image uploaded: %s", m.Name),
			Before:      before,
			After:       m,
		})

		return c.JSON(fiber.Map{"image_url": url})
	}
}

// POST /api/medications/:id/image-from-url (admin only)
// Mirrors a remote image into local storage. Keeps "pending remote URL"
// and "persisted local URL" as two separate states instead of overloading
// one field.
func ImportMedicationImageHandler(store *storage.Local) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Medication
		if err := database.DB.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}

		var body ImportImageRequest
		if err := c.BodyParser(&body); err != nil || body.URL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "'url' field is required")
		}

		data, err := FetchImage(body.URL)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Image could not be fetched: %v", err))
		}

		ext, err := storage.ValidateImage(data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		filename := storage.UniqueFilename(m.Name, ext)
		url, err := store.Save(imageBucket, filename, data)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Image could not be stored")
		}

		before := m
		m.ImageURL = url
		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medication could not be updated")
		}

		audit.WriteFromCtx(c, audit.Entry{
			EntityType:  "medication",
			EntityID:    m.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Image imported: %s", m.Name),
			Before:      before,
			After:       m,
		})

		return c.JSON(fiber.Map{"image_url": url})
	}
}

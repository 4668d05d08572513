package audit

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/sopheaklaing/pharmacy/internal/auth"
	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Entry struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog appends one audit row. Mutations in the stock ledger are
// recorded here but never undone: reversing a transaction means recording
// a compensating one, the ledger itself stays append-only.
func WriteLog(e Entry) error {
	// jsonb columns want the JSON literal "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if e.Before != nil {
		if b, err := json.Marshal(e.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if e.After != nil {
		if b, err := json.Marshal(e.After); err == nil {
			afterStr = string(b)
		}
	}

	row := models.AuditLog{
		UserID:      e.UserID,
		UserName:    e.UserName,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("audit log could not be saved: %w", err)
	}

	return nil
}

// WriteFromCtx fills in the acting user from the request context. Audit
// failures are logged and swallowed so they never block the mutation that
// already succeeded.
func WriteFromCtx(c *fiber.Ctx, e Entry) {
	if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
		e.UserID = userID
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			e.UserName = user.Name
		}
	}

	if err := WriteLog(e); err != nil {
		log.Println("audit:", err)
	}
}

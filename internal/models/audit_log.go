package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint
	UserName string `gorm:"size:100"` // denormalized for display

	// e.g. "medication", "category", "stock_log", "payment"
	EntityType string `gorm:"size:50;index"`
	EntityID   uint   `gorm:"index"`

	Action      AuditAction `gorm:"size:20"`
	Description string      `gorm:"size:255"`

	// Entity state before/after the mutation (JSON)
	BeforeData string `gorm:"type:jsonb"`
	AfterData  string `gorm:"type:jsonb"`
}

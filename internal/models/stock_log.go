package models

import "time"

type StockLogType string

const (
	StockLogIn  StockLogType = "in"
	StockLogOut StockLogType = "out"
)

// StockLog: one immutable quantity change for a medication. The table is an
// append-only ledger: rows are never updated or deleted after creation.
type StockLog struct {
	ID           uint `gorm:"primaryKey"`
	MedicationID uint `gorm:"index;not null"`
	Medication   Medication
	Type         StockLogType `gorm:"size:10;not null"`
	Quantity     int          `gorm:"not null"` // always positive, sign comes from Type
	Reason       string       `gorm:"size:255"`
	BatchNo      string       `gorm:"size:50"`
	ExpiryDate   *time.Time   // expiry of this batch, if known
	CreatedAt    time.Time
}

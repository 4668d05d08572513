package models

import "time"

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID          uint          `gorm:"primaryKey"`
	PaymentRef  string        `gorm:"size:50;uniqueIndex;not null"` // pay_xxxxxxxx
	OrderRef    string        `gorm:"size:50;index"`
	PayerName   string        `gorm:"size:100;not null"`
	PayerEmail  string        `gorm:"size:100"`
	Amount      float64       `gorm:"not null"`
	Currency    string        `gorm:"size:3;not null;default:USD"`
	Status      PaymentStatus `gorm:"size:20;not null"`
	Method      string        `gorm:"size:30"`
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

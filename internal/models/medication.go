package models

import "time"

type Medication struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null"`
	Description string `gorm:"size:500"`
	CategoryID  *uint  `gorm:"index"`
	Category    *Category
	Unit        string `gorm:"size:20"`  // tablet, box, bottle etc.
	ImageURL    string `gorm:"size:500"` // persisted URL only, never a pending upload
	// ReorderLevel nil means the default policy value applies.
	ReorderLevel *int
	ExpiryDate   *time.Time
	// Quantity is denormalized for list speed. It is recomputed from the
	// stock log ledger on every write and never trusted as source of truth.
	Quantity  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

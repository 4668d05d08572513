package stock

import (
	"time"

	"github.com/sopheaklaing/pharmacy/internal/models"
)

type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusLowStock   Status = "low_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// DefaultReorderLevel applies when a medication has no reorder level set.
const DefaultReorderLevel = 10

// ExpiryWindow is the lookahead for the expiring_soon flag.
const ExpiryWindow = 30 * 24 * time.Hour

// Snapshot is the derived current state of one medication. It is computed
// on demand from the ledger and never persisted.
type Snapshot struct {
	MedicationID uint   `json:"medication_id"`
	Quantity     int    `json:"quantity"`
	Status       Status `json:"status"`
	ExpiringSoon bool   `json:"expiring_soon"`
	Expired      bool   `json:"expired"`
}

// SumLedger adds up all quantity deltas: "in" counts positive, "out"
// negative. The result does not depend on entry order.
func SumLedger(entries []models.StockLog) int {
	total := 0
	for _, e := range entries {
		if e.Type == models.StockLogOut {
			total -= e.Quantity
		} else {
			total += e.Quantity
		}
	}
	return total
}

// Classify maps a quantity to its stock status against the reorder level.
func Classify(quantity int, reorderLevel *int) Status {
	level := DefaultReorderLevel
	if reorderLevel != nil {
		level = *reorderLevel
	}
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity <= level:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ExpiryFlags reports whether an expiry date is inside the 30 day window
// or already past. Both are false when no expiry date is set. An expired
// date is not additionally flagged as expiring soon.
func ExpiryFlags(expiry *time.Time, now time.Time) (soon, expired bool) {
	if expiry == nil {
		return false, false
	}
	if expiry.Before(now) {
		return false, true
	}
	return expiry.Sub(now) <= ExpiryWindow, false
}

// earliestExpiry picks the nearest known expiry: the medication's own date
// or any batch expiry recorded on its ledger entries.
func earliestExpiry(m models.Medication, entries []models.StockLog) *time.Time {
	earliest := m.ExpiryDate
	for _, e := range entries {
		if e.ExpiryDate == nil {
			continue
		}
		if earliest == nil || e.ExpiryDate.Before(*earliest) {
			earliest = e.ExpiryDate
		}
	}
	return earliest
}

// ComputeSnapshot derives quantity and classification for one medication
// from its complete ledger. Pure function: no side effects, deterministic,
// independent of entry order.
func ComputeSnapshot(m models.Medication, entries []models.StockLog, now time.Time) Snapshot {
	quantity := SumLedger(entries)
	soon, expired := ExpiryFlags(earliestExpiry(m, entries), now)
	return Snapshot{
		MedicationID: m.ID,
		Quantity:     quantity,
		Status:       Classify(quantity, m.ReorderLevel),
		ExpiringSoon: soon,
		Expired:      expired,
	}
}

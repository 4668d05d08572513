package stock

import (
	"errors"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock rejects outbound transactions that would drive the
// ledger sum below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type TransactionInput struct {
	MedicationID uint
	Type         models.StockLogType
	Quantity     int
	Reason       string
	BatchNo      string
	ExpiryDate   *time.Time
}

// RecordTransaction appends exactly one immutable row to the stock ledger.
// The negative-stock check, the append and the refresh of the denormalized
// medication counter all run inside one database transaction with the
// medication row locked, so concurrent admin sessions cannot race the
// check. Historical entries are never updated or deleted.
func RecordTransaction(in TransactionInput) (*models.StockLog, error) {
	if in.Quantity <= 0 {
		return nil, errors.New("quantity must be a positive integer")
	}
	if in.Type != models.StockLogIn && in.Type != models.StockLogOut {
		return nil, errors.New("type must be 'in' or 'out'")
	}

	var entry models.StockLog
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite (used by the tests) does not parse FOR UPDATE; its write
		// transactions are serialized anyway.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var med models.Medication
		if err := q.First(&med, "id = ?", in.MedicationID).Error; err != nil {
			return err
		}

		var entries []models.StockLog
		if err := tx.Where("medication_id = ?", med.ID).Find(&entries).Error; err != nil {
			return err
		}
		current := SumLedger(entries)

		if in.Type == models.StockLogOut && in.Quantity > current {
			return ErrInsufficientStock
		}

		entry = models.StockLog{
			MedicationID: med.ID,
			Type:         in.Type,
			Quantity:     in.Quantity,
			Reason:       in.Reason,
			BatchNo:      in.BatchNo,
			ExpiryDate:   in.ExpiryDate,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// Keep the display counter equal to the ledger sum. It is
		// recomputed here, not incremented, so it can never drift.
		newTotal := current + in.Quantity
		if in.Type == models.StockLogOut {
			newTotal = current - in.Quantity
		}
		if err := tx.Model(&models.Medication{}).
			Where("id = ?", med.ID).
			Update("quantity", newTotal).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ItemLevel is the typed per-medication aggregation result. A failed ledger
// read for one medication yields its Error field instead of a silent zero;
// the other medications are unaffected.
type ItemLevel struct {
	MedicationID uint      `json:"medication_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Snapshot     *Snapshot `json:"snapshot,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// ComputeLevels aggregates the whole catalog. The catalog read itself
// failing aborts the call; per-item ledger failures are reported per item.
func ComputeLevels(now time.Time) ([]ItemLevel, error) {
	var meds []models.Medication
	if err := database.DB.Order("name asc").Find(&meds).Error; err != nil {
		return nil, err
	}

	levels := make([]ItemLevel, 0, len(meds))
	for _, m := range meds {
		level := ItemLevel{
			MedicationID: m.ID,
			Name:         m.Name,
			Unit:         m.Unit,
		}

		var entries []models.StockLog
		if err := database.DB.Where("medication_id = ?", m.ID).Find(&entries).Error; err != nil {
			level.Error = err.Error()
		} else {
			snap := ComputeSnapshot(m, entries, now)
			level.Snapshot = &snap
		}

		levels = append(levels, level)
	}
	return levels, nil
}

// Snapshots returns the snapshot map used by the catalog filter.
func Snapshots(meds []models.Medication, now time.Time) (map[uint]Snapshot, error) {
	var entries []models.StockLog
	if err := database.DB.Find(&entries).Error; err != nil {
		return nil, err
	}

	byMed := make(map[uint][]models.StockLog)
	for _, e := range entries {
		byMed[e.MedicationID] = append(byMed[e.MedicationID], e)
	}

	snaps := make(map[uint]Snapshot, len(meds))
	for _, m := range meds {
		snaps[m.ID] = ComputeSnapshot(m, byMed[m.ID], now)
	}
	return snaps, nil
}

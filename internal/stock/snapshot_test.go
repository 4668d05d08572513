package stock

import (
	"testing"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int              { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func entry(typ models.StockLogType, qty int) models.StockLog {
	return models.StockLog{Type: typ, Quantity: qty}
}

func TestSumLedger_OrderIndependent(t *testing.T) {
	a := []models.StockLog{
		entry(models.StockLogIn, 50),
		entry(models.StockLogOut, 20),
		entry(models.StockLogIn, 7),
		entry(models.StockLogOut, 3),
	}
	b := []models.StockLog{a[3], a[1], a[0], a[2]}

	assert.Equal(t, 34, SumLedger(a))
	assert.Equal(t, SumLedger(a), SumLedger(b))
}

func TestSumLedger_Empty(t *testing.T) {
	assert.Equal(t, 0, SumLedger(nil))
}

func TestComputeSnapshot_Idempotent(t *testing.T) {
	m := models.Medication{ID: 1, ReorderLevel: intPtr(5)}
	entries := []models.StockLog{
		entry(models.StockLogIn, 10),
		entry(models.StockLogOut, 4),
	}
	now := time.Now()

	first := ComputeSnapshot(m, entries, now)
	second := ComputeSnapshot(m, entries, now)

	assert.Equal(t, first, second)
	assert.Equal(t, 6, first.Quantity)
}

func TestClassify_Boundaries(t *testing.T) {
	level := intPtr(10)

	assert.Equal(t, StatusOutOfStock, Classify(0, level))
	assert.Equal(t, StatusLowStock, Classify(1, level))
	assert.Equal(t, StatusLowStock, Classify(10, level))
	assert.Equal(t, StatusInStock, Classify(11, level))
}

func TestClassify_DefaultReorderLevel(t *testing.T) {
	assert.Equal(t, StatusLowStock, Classify(DefaultReorderLevel, nil))
	assert.Equal(t, StatusInStock, Classify(DefaultReorderLevel+1, nil))
}

func TestExpiryFlags(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		expiry      *time.Time
		wantSoon    bool
		wantExpired bool
	}{
		{"no expiry", nil, false, false},
		{"29 days ahead", timePtr(now.Add(29 * 24 * time.Hour)), true, false},
		{"31 days ahead", timePtr(now.Add(31 * 24 * time.Hour)), false, false},
		{"yesterday", timePtr(now.Add(-24 * time.Hour)), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			soon, expired := ExpiryFlags(tt.expiry, now)
			assert.Equal(t, tt.wantSoon, soon)
			assert.Equal(t, tt.wantExpired, expired)
		})
	}
}

func TestComputeSnapshot_BatchExpiryDrivesFlag(t *testing.T) {
	now := time.Now()
	m := models.Medication{ID: 1, ReorderLevel: intPtr(10)}

	entries := []models.StockLog{
		{Type: models.StockLogIn, Quantity: 50, BatchNo: "B1", ExpiryDate: timePtr(now.Add(10 * 24 * time.Hour))},
	}

	snap := ComputeSnapshot(m, entries, now)
	assert.Equal(t, 50, snap.Quantity)
	assert.Equal(t, StatusInStock, snap.Status)
	assert.True(t, snap.ExpiringSoon)
	assert.False(t, snap.Expired)
}

func TestComputeSnapshot_LowStockAfterSale(t *testing.T) {
	now := time.Now()
	m := models.Medication{ID: 1, ReorderLevel: intPtr(10)}

	entries := []models.StockLog{
		{Type: models.StockLogIn, Quantity: 50, BatchNo: "B1"},
		{Type: models.StockLogOut, Quantity: 45, Reason: "sale"},
	}

	snap := ComputeSnapshot(m, entries, now)
	assert.Equal(t, 5, snap.Quantity)
	assert.Equal(t, StatusLowStock, snap.Status)
}

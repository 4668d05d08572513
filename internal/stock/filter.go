package stock

import (
	"strings"

	"github.com/sopheaklaing/pharmacy/internal/models"
)

// Filter statuses accepted by the catalog screens.
const (
	FilterLowStock     = "low_stock"
	FilterExpiringSoon = "expiring_soon"
)

// Filter is an immutable view-state value: each user interaction on the
// dashboard produces a new Filter rather than mutating screen state.
type Filter struct {
	Search   string // case-insensitive substring on name or description
	Category string // exact category name, empty matches all
	Status   string // "", FilterLowStock or FilterExpiringSoon
}

// Apply returns the medications matching the filter. Non-mutating
// projection over the in-memory list; it never queries the store.
// Snapshots are looked up by medication ID for the status predicates.
func (f Filter) Apply(meds []models.Medication, snaps map[uint]Snapshot) []models.Medication {
	query := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Medication, 0, len(meds))
	for _, m := range meds {
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Name), query) &&
			!strings.Contains(strings.ToLower(m.Description), query) {
			continue
		}
		if f.Category != "" {
			if m.Category == nil || m.Category.Name != f.Category {
				continue
			}
		}
		if f.Status != "" {
			snap, ok := snaps[m.ID]
			if !ok {
				continue
			}
			switch f.Status {
			case FilterLowStock:
				if snap.Status != StatusLowStock {
					continue
				}
			case FilterExpiringSoon:
				if !snap.ExpiringSoon {
					continue
				}
			default:
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

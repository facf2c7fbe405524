package shared

import (
	"sort"

	"booking-core/internal/domain/schedule"

	"github.com/google/uuid"
)

// CalendarKey identifies one employee's day, the unit of write contention.
type CalendarKey struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	Date       schedule.Date
}

func (k CalendarKey) String() string {
	return k.TenantID.String() + ":" + k.EmployeeID.String() + ":" + k.Date.String()
}

// SortedKeys deduplicates keys and orders them by their string form.
func SortedKeys(keys []CalendarKey) []CalendarKey {
	seen := make(map[string]CalendarKey, len(keys))
	for _, k := range keys {
		seen[k.String()] = k
	}
	out := make([]CalendarKey, 0, len(seen))
	for _, k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

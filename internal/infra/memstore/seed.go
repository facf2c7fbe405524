package memstore

import (
	"time"

	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DemoTenantSlug = "demo"

type DemoIDs struct {
	TenantID   uuid.UUID
	BranchID   uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID uuid.UUID
	ClientID   uuid.UUID
}

// SeedDemo loads one tenant with a branch, a 30 minute service and an employee
// working 09:00-17:00 on weekdays, so the memory driver is usable without an admin API.
func SeedDemo(s *Store) (DemoIDs, error) {
	ids := DemoIDs{
		TenantID:   uuid.New(),
		BranchID:   uuid.New(),
		ServiceID:  uuid.New(),
		EmployeeID: uuid.New(),
		ClientID:   uuid.New(),
	}

	branch, err := catalog.ReconstructBranch(ids.BranchID, ids.TenantID, "Main", "UTC")
	if err != nil {
		return DemoIDs{}, err
	}

	entries := make([]schedule.DayEntry, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		e := schedule.DayEntry{Weekday: d}
		if d != time.Sunday && d != time.Saturday {
			e.IsWorkDay, e.Start, e.End = true, 9*60, 17*60
		}
		entries = append(entries, e)
	}
	weekly, err := schedule.NewWeekly(entries)
	if err != nil {
		return DemoIDs{}, err
	}

	s.PutTenant(tenant.ReconstructTenant(ids.TenantID, DemoTenantSlug, "Demo", true))
	s.PutBranch(branch)
	s.PutService(catalog.ReconstructService(ids.ServiceID, ids.TenantID, "Consultation", 30, decimal.NewFromInt(50), true))
	s.PutEmployee(catalog.ReconstructEmployee(ids.EmployeeID, ids.TenantID, ids.BranchID, "Alex", true, []uuid.UUID{ids.ServiceID}))
	s.PutClient(catalog.ReconstructClient(ids.ClientID, ids.TenantID, "Sam", "sam@example.com", ""))
	s.PutWeekly(ids.TenantID, ids.EmployeeID, weekly)

	return ids, nil
}

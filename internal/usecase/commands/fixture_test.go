//go:build unit

package commands_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/infra/cache"
	"booking-core/internal/infra/memstore"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// 2026-10-13 is a Tuesday
var tuesday = schedule.NewDate(2026, time.October, 13)

type fixture struct {
	store    *memstore.Store
	clock    *clock.MockClock
	defaults tenant.Defaults

	tenantID   uuid.UUID
	branchID   uuid.UUID
	serviceID  uuid.UUID
	longSvcID  uuid.UUID
	employeeID uuid.UUID
	otherEmpID uuid.UUID
	clientID   uuid.UUID

	reservations commands.ReservationCommands
	schedules    commands.ScheduleCommands
	settings     commands.SettingsCommands
	reminders    commands.ReminderCommands
	slots        queries.SlotQueries
	lookups      queries.AppointmentQueries
}

func hm(s string) schedule.Minute {
	m, err := schedule.ParseMinute(s)
	if err != nil {
		panic(err)
	}
	return m
}

func monToSat(start, end schedule.Minute) []schedule.DayEntry {
	entries := make([]schedule.DayEntry, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		e := schedule.DayEntry{Weekday: d}
		if d != time.Sunday {
			e.IsWorkDay, e.Start, e.End = true, start, end
		}
		entries = append(entries, e)
	}
	return entries
}

// newFixture seeds one tenant whose employees work Mon-Sat 08:00-19:00 and whose
// client has both an email and a phone, with one email reminder 24h ahead.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      memstore.New(5 * time.Second),
		clock:      clock.NewMockClock(time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)),
		tenantID:   uuid.New(),
		branchID:   uuid.New(),
		serviceID:  uuid.New(),
		longSvcID:  uuid.New(),
		employeeID: uuid.New(),
		otherEmpID: uuid.New(),
		clientID:   uuid.New(),
	}

	branch, err := catalog.ReconstructBranch(f.branchID, f.tenantID, "Shibuya", "UTC")
	require.NoError(t, err)
	weekly, err := schedule.NewWeekly(monToSat(hm("08:00"), hm("19:00")))
	require.NoError(t, err)

	f.store.PutTenant(tenant.ReconstructTenant(f.tenantID, "acme", "Acme", true))
	f.store.PutBranch(branch)
	f.store.PutService(catalog.ReconstructService(f.serviceID, f.tenantID, "Cut", 30, decimal.NewFromInt(40), true))
	f.store.PutService(catalog.ReconstructService(f.longSvcID, f.tenantID, "Color", 90, decimal.NewFromInt(120), true))
	services := []uuid.UUID{f.serviceID, f.longSvcID}
	f.store.PutEmployee(catalog.ReconstructEmployee(f.employeeID, f.tenantID, f.branchID, "Aiko", true, services))
	f.store.PutEmployee(catalog.ReconstructEmployee(f.otherEmpID, f.tenantID, f.branchID, "Kenji", true, services))
	f.store.PutClient(catalog.ReconstructClient(f.clientID, f.tenantID, "Sam", "sam@example.com", "+815000000"))
	f.store.PutWeekly(f.tenantID, f.employeeID, weekly)
	f.store.PutWeekly(f.tenantID, f.otherEmpID, weekly)

	f.defaults = tenant.Defaults{Settings: tenant.Settings{
		SlotStepMinutes:  30,
		ReminderOffsets:  []time.Duration{24 * time.Hour},
		ReminderChannels: []reminder.Channel{reminder.ChannelEmail},
		DefaultStatus:    appointment.StatusConfirmed,
	}}
	defaults := f.defaults
	slotCache := cache.NoopSlotCache{}

	f.reservations = commands.NewReservationCommands(f.store, slotCache, defaults, f.clock)
	f.schedules = commands.NewScheduleCommands(f.store, slotCache)
	f.settings = commands.NewSettingsCommands(f.store, defaults)
	f.reminders = commands.NewReminderCommands(f.store, f.clock)
	f.slots = queries.NewSlotQueries(f.store, slotCache, defaults, f.clock)
	f.lookups = queries.NewAppointmentQueries(f.store)
	return f
}

func (f *fixture) reserveParams(start string) commands.ReserveParams {
	return commands.ReserveParams{
		TenantID:   f.tenantID,
		BranchID:   f.branchID,
		EmployeeID: f.employeeID,
		ServiceID:  f.serviceID,
		ClientID:   f.clientID,
		Date:       tuesday,
		Start:      hm(start),
	}
}

func clocks(ms []schedule.Minute) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

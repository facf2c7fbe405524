package shared

import (
	"context"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Tenants() TenantRepository
	Catalog() CatalogRepository
	Schedules() ScheduleRepository
	Appointments() AppointmentRepository
	Reminders() ReminderRepository
}

type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
	// Settings returns nil without error when the tenant never stored any.
	Settings(ctx context.Context, tenantID uuid.UUID) (*tenant.Settings, error)
	UpsertSettings(ctx context.Context, tenantID uuid.UUID, s tenant.Settings) error
}

type CatalogRepository interface {
	Branch(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Branch, error)
	Service(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Service, error)
	Employee(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Employee, error)
	Client(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Client, error)
}

type ScheduleRepository interface {
	// Weekly returns nil without error when no schedule has been stored.
	Weekly(ctx context.Context, tenantID, employeeID uuid.UUID) (*schedule.Weekly, error)
	UpsertWeekly(ctx context.Context, tenantID, employeeID uuid.UUID, w *schedule.Weekly) error
	// Exception returns nil without error when the date has no override.
	Exception(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (*schedule.Exception, error)
	UpsertException(ctx context.Context, tenantID, employeeID uuid.UUID, exc *schedule.Exception) error
	DeleteException(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (bool, error)
}

type AppointmentRepository interface {
	// LockCalendars takes the writer lock of every key for the rest of the transaction.
	// Keys are acquired in a stable order; a bounded wait yields KindLockTimeout.
	LockCalendars(ctx context.Context, keys ...CalendarKey) error
	// Occupied lists intervals of non-cancelled appointments, skipping exclude.
	Occupied(ctx context.Context, key CalendarKey, exclude uuid.UUID) ([]schedule.Window, error)
	Create(ctx context.Context, a *appointment.Appointment) error
	Update(ctx context.Context, a *appointment.Appointment) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error)
	// FindForUpdate re-reads the row for a write; writers must call it after LockCalendars.
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error)
	ListByCalendar(ctx context.Context, key CalendarKey) ([]*appointment.Appointment, error)
}

type ReminderRepository interface {
	CreateBatch(ctx context.Context, rs []*reminder.Reminder) error
	CancelPending(ctx context.Context, tenantID, appointmentID uuid.UUID) (int, error)
	// ClaimDue locks up to limit due pending reminders; concurrent sweepers skip locked rows.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*reminder.Reminder, error)
	Save(ctx context.Context, r *reminder.Reminder) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*reminder.Reminder, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status reminder.Status, limit int) ([]*reminder.Reminder, error)
}

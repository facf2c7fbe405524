package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/slot"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/reminders"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOutsideAvailability = errs.New("requested interval is outside the employee's availability")
	ErrAppointmentInactive = errs.New("appointment is cancelled")
	ErrAppointmentMoving   = errs.New("appointment moved repeatedly while waiting for its calendar lock")
)

const maxRelocks = 3

type ReserveParams struct {
	TenantID   uuid.UUID
	BranchID   uuid.UUID
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	ClientID   uuid.UUID
	Date       schedule.Date
	Start      schedule.Minute
	Note       string
}

// RescheduleParams moves an appointment. A nil EmployeeID or ServiceID keeps the current one.
type RescheduleParams struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	EmployeeID    *uuid.UUID
	ServiceID     *uuid.UUID
	Date          schedule.Date
	Start         schedule.Minute
}

type ReservationCommands interface {
	Reserve(ctx context.Context, p ReserveParams) (*queries.AppointmentView, error)
	Reschedule(ctx context.Context, p RescheduleParams) (*queries.AppointmentView, error)
	// Cancel is idempotent: cancelling a cancelled appointment returns it unchanged.
	Cancel(ctx context.Context, tenantID, appointmentID uuid.UUID) (*queries.AppointmentView, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	cache    shared.SlotCache
	defaults tenant.Defaults
	clock    clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	cache shared.SlotCache,
	defaults tenant.Defaults,
	clock clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		cache:    cache,
		defaults: defaults,
		clock:    clock,
	}
}

func (r *reservationCommandsImpl) Reserve(ctx context.Context, p ReserveParams) (*queries.AppointmentView, error) {
	if err := validateReserve(p); err != nil {
		return nil, err
	}

	var duration int
	view, err := shared.WithinResult(ctx, r.uow, func(ctx context.Context, tx shared.Tx) (*queries.AppointmentView, error) {
		target, err := shared.LoadBookingTarget(ctx, tx, p.TenantID, p.EmployeeID, p.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = target.Service.DurationMinutes()
		if p.BranchID != uuid.Nil && target.Branch.ID() != p.BranchID {
			return nil, errs.Mark(catalog.ErrBranchMismatch, errs.ErrValidation)
		}
		client, err := tx.Catalog().Client(ctx, p.TenantID, p.ClientID)
		if err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "client")
		}
		settings, err := shared.LoadSettings(ctx, tx, r.defaults, p.TenantID)
		if err != nil {
			return nil, err
		}

		now := r.clock.Now()
		key := shared.CalendarKey{TenantID: p.TenantID, EmployeeID: p.EmployeeID, Date: p.Date}
		if err := r.claimInterval(ctx, tx, key, uuid.Nil, target, settings, p.Start, now); err != nil {
			return nil, err
		}

		a, err := appointment.NewAppointment(appointment.NewParams{
			TenantID:   p.TenantID,
			BranchID:   target.Branch.ID(),
			ServiceID:  p.ServiceID,
			EmployeeID: p.EmployeeID,
			ClientID:   p.ClientID,
			Date:       p.Date,
			Start:      p.Start,
			Duration:   target.Service.DurationMinutes(),
			Location:   target.Branch.Location(),
			Status:     settings.DefaultStatus,
			Note:       p.Note,
			Now:        now,
		})
		if err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		// A concurrent writer that slipped past the lock still trips the exclusion constraint.
		if err := tx.Appointments().Create(ctx, a); err != nil {
			return nil, shared.MapRepoErr(err)
		}

		if err := scheduleReminders(ctx, tx, a, target, client, settings, now); err != nil {
			return nil, err
		}
		return queries.ToAppointmentView(a), nil
	})
	if err != nil {
		logReservationFailure("reserve", err, p.TenantID, p.EmployeeID, p.Date, p.Start, duration)
		return nil, err
	}

	r.invalidate(ctx, p.TenantID, p.EmployeeID)
	return view, nil
}

func (r *reservationCommandsImpl) Reschedule(ctx context.Context, p RescheduleParams) (*queries.AppointmentView, error) {
	if p.TenantID == uuid.Nil || p.AppointmentID == uuid.Nil {
		return nil, errs.Validationf("tenant and appointment are required")
	}
	if p.Date.IsZero() {
		return nil, errs.Validationf("date is required")
	}
	if !validStart(p.Start) {
		return nil, errs.Validationf("time %s is out of range", p.Start)
	}

	var (
		previousEmployee, employeeID uuid.UUID
		duration                     int
	)
	view, err := shared.WithinResult(ctx, r.uow, func(ctx context.Context, tx shared.Tx) (*queries.AppointmentView, error) {
		destination := func(a *appointment.Appointment) []shared.CalendarKey {
			emp := a.EmployeeID()
			if p.EmployeeID != nil {
				emp = *p.EmployeeID
			}
			return []shared.CalendarKey{{TenantID: p.TenantID, EmployeeID: emp, Date: p.Date}}
		}
		// The source day is locked too so the freed interval and the new one change together.
		a, err := lockAppointment(ctx, tx, p.TenantID, p.AppointmentID, destination)
		if err != nil {
			return nil, err
		}
		if !a.IsActive() {
			return nil, errs.Mark(ErrAppointmentInactive, errs.ErrValidation)
		}
		previousEmployee = a.EmployeeID()
		to := destination(a)[0]
		employeeID = to.EmployeeID
		serviceID := a.ServiceID()
		if p.ServiceID != nil {
			serviceID = *p.ServiceID
		}

		target, err := shared.LoadBookingTarget(ctx, tx, p.TenantID, employeeID, serviceID)
		if err != nil {
			return nil, err
		}
		duration = target.Service.DurationMinutes()
		if target.Branch.ID() != a.BranchID() {
			return nil, errs.Mark(catalog.ErrBranchMismatch, errs.ErrValidation)
		}
		client, err := tx.Catalog().Client(ctx, p.TenantID, a.ClientID())
		if err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "client")
		}
		settings, err := shared.LoadSettings(ctx, tx, r.defaults, p.TenantID)
		if err != nil {
			return nil, err
		}

		now := r.clock.Now()
		if err := r.checkInterval(ctx, tx, to, a.ID(), target, settings, p.Start, now); err != nil {
			return nil, err
		}

		if err := a.Move(appointment.MoveParams{
			EmployeeID: employeeID,
			ServiceID:  serviceID,
			Date:       p.Date,
			Start:      p.Start,
			Duration:   target.Service.DurationMinutes(),
			Location:   target.Branch.Location(),
			Now:        now,
		}); err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		if err := tx.Appointments().Update(ctx, a); err != nil {
			return nil, shared.MapRepoErr(err)
		}

		if _, err := tx.Reminders().CancelPending(ctx, p.TenantID, a.ID()); err != nil {
			return nil, shared.MapRepoErr(err)
		}
		if err := scheduleReminders(ctx, tx, a, target, client, settings, now); err != nil {
			return nil, err
		}
		return queries.ToAppointmentView(a), nil
	})
	if err != nil {
		logReservationFailure("reschedule", err, p.TenantID, employeeID, p.Date, p.Start, duration)
		return nil, err
	}

	r.invalidate(ctx, p.TenantID, previousEmployee)
	if employeeID != previousEmployee {
		r.invalidate(ctx, p.TenantID, employeeID)
	}
	return view, nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, tenantID, appointmentID uuid.UUID) (*queries.AppointmentView, error) {
	if tenantID == uuid.Nil || appointmentID == uuid.Nil {
		return nil, errs.Validationf("tenant and appointment are required")
	}

	var changed bool
	view, err := shared.WithinResult(ctx, r.uow, func(ctx context.Context, tx shared.Tx) (*queries.AppointmentView, error) {
		a, err := lockAppointment(ctx, tx, tenantID, appointmentID, nil)
		if err != nil {
			return nil, err
		}
		if changed = a.Cancel(r.clock.Now()); !changed {
			return queries.ToAppointmentView(a), nil
		}
		if err := tx.Appointments().Update(ctx, a); err != nil {
			return nil, shared.MapRepoErr(err)
		}
		if _, err := tx.Reminders().CancelPending(ctx, tenantID, a.ID()); err != nil {
			return nil, shared.MapRepoErr(err)
		}
		return queries.ToAppointmentView(a), nil
	})
	if err != nil {
		if !shared.IsExpected(err) {
			slog.Error("cancel appointment failed",
				"error", err,
				"tenant_id", tenantID.String(),
				"appointment_id", appointmentID.String(),
			)
		}
		return nil, err
	}

	if changed {
		r.invalidate(ctx, tenantID, view.EmployeeID)
	}
	return view, nil
}

// lockAppointment locks the calendar day appointment id is on, plus the days extra adds, and
// returns the row as re-read under those locks. When a concurrent writer moved the appointment
// between the read and the lock, the new day is locked as well and the row read again.
func lockAppointment(
	ctx context.Context,
	tx shared.Tx,
	tenantID, id uuid.UUID,
	extra func(*appointment.Appointment) []shared.CalendarKey,
) (*appointment.Appointment, error) {
	a, err := tx.Appointments().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errs.Wrap(shared.MapRepoErr(err), "appointment")
	}
	for range maxRelocks {
		keys := lockKeys(a, extra)
		if err := tx.Appointments().LockCalendars(ctx, keys...); err != nil {
			return nil, shared.MapRepoErr(err)
		}
		current, err := tx.Appointments().FindForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "appointment")
		}
		if sameKeys(keys, lockKeys(current, extra)) {
			return current, nil
		}
		a = current
	}
	return nil, errs.Mark(ErrAppointmentMoving, errs.ErrTransientUnavailable)
}

func lockKeys(a *appointment.Appointment, extra func(*appointment.Appointment) []shared.CalendarKey) []shared.CalendarKey {
	keys := []shared.CalendarKey{{TenantID: a.TenantID(), EmployeeID: a.EmployeeID(), Date: a.Date()}}
	if extra != nil {
		keys = append(keys, extra(a)...)
	}
	return shared.SortedKeys(keys)
}

func sameKeys(a, b []shared.CalendarKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}

// claimInterval locks key and verifies the requested interval against the freshly read ledger.
func (r *reservationCommandsImpl) claimInterval(
	ctx context.Context,
	tx shared.Tx,
	key shared.CalendarKey,
	exclude uuid.UUID,
	target *shared.BookingTarget,
	settings tenant.Settings,
	start schedule.Minute,
	now time.Time,
) error {
	if err := tx.Appointments().LockCalendars(ctx, key); err != nil {
		return shared.MapRepoErr(err)
	}
	return r.checkInterval(ctx, tx, key, exclude, target, settings, start, now)
}

// checkInterval must run while the calendar lock of key is held.
func (r *reservationCommandsImpl) checkInterval(
	ctx context.Context,
	tx shared.Tx,
	key shared.CalendarKey,
	exclude uuid.UUID,
	target *shared.BookingTarget,
	settings tenant.Settings,
	start schedule.Minute,
	now time.Time,
) error {
	cal, err := shared.LoadCalendar(ctx, tx, key, exclude)
	if err != nil {
		return err
	}
	duration := target.Service.DurationMinutes()
	policy := settings.SlotPolicy(now, target.Branch.Location(), key.Date)
	if !slot.Fits(cal.Windows, nil, start, duration, policy) {
		return errs.Mark(
			errs.Wrapf(ErrOutsideAvailability, "%s %s+%dm", key.Date, start, duration),
			errs.ErrValidation,
		)
	}
	if !slot.Fits(cal.Windows, cal.Occupied, start, duration, policy) {
		return errs.Mark(errs.Newf("%s %s+%dm overlaps an existing appointment", key.Date, start, duration), errs.ErrSlotTaken)
	}
	return nil
}

func scheduleReminders(
	ctx context.Context,
	tx shared.Tx,
	a *appointment.Appointment,
	target *shared.BookingTarget,
	client *catalog.Client,
	settings tenant.Settings,
	now time.Time,
) error {
	local := a.StartAt().In(target.Branch.Location())
	planned := reminder.Plan(reminder.PlanInput{
		TenantID:      a.TenantID(),
		AppointmentID: a.ID(),
		StartAt:       a.StartAt(),
		Offsets:       settings.ReminderOffsets,
		Channels:      settings.ReminderChannels,
		Recipients: reminder.Recipients{
			reminder.ChannelEmail:    client.Email(),
			reminder.ChannelSMS:      client.Phone(),
			reminder.ChannelWhatsApp: client.Phone(),
		},
		Data: map[string]string{
			reminders.DataClientName:  client.Name(),
			reminders.DataServiceName: target.Service.Name(),
			reminders.DataBranchName:  target.Branch.Name(),
			reminders.DataDate:        a.Date().String(),
			reminders.DataTime:        a.Interval().Start.String(),
			reminders.DataStartAt:     local.Format(time.RFC3339),
		},
		Now: now,
	})
	if len(planned) == 0 {
		return nil
	}
	if err := tx.Reminders().CreateBatch(ctx, planned); err != nil {
		return shared.MapRepoErr(err)
	}
	return nil
}

func (r *reservationCommandsImpl) invalidate(ctx context.Context, tenantID, employeeID uuid.UUID) {
	if err := r.cache.Invalidate(ctx, tenantID, employeeID); err != nil {
		slog.Warn("slot cache invalidation failed",
			"error", err,
			"tenant_id", tenantID.String(),
			"employee_id", employeeID.String(),
		)
	}
}

func validateReserve(p ReserveParams) error {
	switch {
	case p.TenantID == uuid.Nil:
		return errs.Validationf("tenant is required")
	case p.EmployeeID == uuid.Nil:
		return errs.Validationf("employeeId is required")
	case p.ServiceID == uuid.Nil:
		return errs.Validationf("serviceId is required")
	case p.ClientID == uuid.Nil:
		return errs.Validationf("clientId is required")
	case p.Date.IsZero():
		return errs.Validationf("date is required")
	case !validStart(p.Start):
		return errs.Validationf("time %s is out of range", p.Start)
	case len(p.Note) > appointment.MaxNoteLength:
		return errs.Mark(appointment.ErrNoteTooLong, errs.ErrValidation)
	}
	return nil
}

func validStart(m schedule.Minute) bool {
	return m.Valid() && m < schedule.MinutesPerDay
}

func logReservationFailure(op string, err error, tenantID, employeeID uuid.UUID, date schedule.Date, start schedule.Minute, duration int) {
	if shared.IsExpected(err) {
		return
	}
	attrs := []any{
		"error", err,
		"tenant_id", tenantID.String(),
		"employee_id", employeeID.String(),
		"date", date.String(),
		"start", start.String(),
	}
	if duration > 0 {
		attrs = append(attrs, "end", (start + schedule.Minute(duration)).String())
	}
	slog.Error(op+" failed", attrs...)
}

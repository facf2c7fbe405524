package memstore

import (
	"context"
	"sort"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/infra"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	store   *Store
	undo    []func()
	held    []string
	claimed []uuid.UUID
}

// record must be called with store.mu held.
func (t *memTx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memTx) rollback() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) release() {
	t.store.mu.Lock()
	for _, id := range t.claimed {
		delete(t.store.claimed, id)
	}
	t.store.mu.Unlock()

	for i := len(t.held) - 1; i >= 0; i-- {
		<-t.store.lockChan(t.held[i])
	}
	t.held = nil
}

func (t *memTx) Tenants() shared.TenantRepository           { return tenantRepo{t} }
func (t *memTx) Catalog() shared.CatalogRepository          { return catalogRepo{t} }
func (t *memTx) Schedules() shared.ScheduleRepository       { return scheduleRepo{t} }
func (t *memTx) Appointments() shared.AppointmentRepository { return appointmentRepo{t} }
func (t *memTx) Reminders() shared.ReminderRepository       { return reminderRepo{t} }

func notFound(what string) error {
	return infra.NewRepoErr(infra.KindNotFound, what+" not found")
}

// -----------------------------------------------------------------------------
// tenants
// -----------------------------------------------------------------------------

type tenantRepo struct{ tx *memTx }

func (r tenantRepo) FindByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, notFound("tenant")
	}
	return t, nil
}

func (r tenantRepo) FindBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.Slug() == slug {
			return t, nil
		}
	}
	return nil, notFound("tenant")
}

func (r tenantRepo) Settings(_ context.Context, tenantID uuid.UUID) (*tenant.Settings, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[tenantID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (r tenantRepo) UpsertSettings(_ context.Context, tenantID uuid.UUID, settings tenant.Settings) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	upsert(r.tx, s.settings, tenantID, settings)
	return nil
}

// upsert replaces m[key] and records how to restore the previous state.
// Callers hold store.mu.
func upsert[K comparable, V any](tx *memTx, m map[K]V, key K, value V) {
	prev, existed := m[key]
	m[key] = value
	tx.record(func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

// -----------------------------------------------------------------------------
// catalog
// -----------------------------------------------------------------------------

type catalogRepo struct{ tx *memTx }

func (r catalogRepo) Branch(_ context.Context, tenantID, id uuid.UUID) (*catalog.Branch, error) {
	return lookup(r.tx.store, r.tx.store.branches, scopedID{tenantID, id}, "branch")
}

func (r catalogRepo) Service(_ context.Context, tenantID, id uuid.UUID) (*catalog.Service, error) {
	return lookup(r.tx.store, r.tx.store.services, scopedID{tenantID, id}, "service")
}

func (r catalogRepo) Employee(_ context.Context, tenantID, id uuid.UUID) (*catalog.Employee, error) {
	return lookup(r.tx.store, r.tx.store.employees, scopedID{tenantID, id}, "employee")
}

func (r catalogRepo) Client(_ context.Context, tenantID, id uuid.UUID) (*catalog.Client, error) {
	return lookup(r.tx.store, r.tx.store.clients, scopedID{tenantID, id}, "client")
}

func lookup[V any](s *Store, m map[scopedID]V, key scopedID, what string) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := m[key]
	if !ok {
		var zero V
		return zero, notFound(what)
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// schedules
// -----------------------------------------------------------------------------

type scheduleRepo struct{ tx *memTx }

func (r scheduleRepo) Weekly(_ context.Context, tenantID, employeeID uuid.UUID) (*schedule.Weekly, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weekly[scopedID{tenantID, employeeID}], nil
}

func (r scheduleRepo) UpsertWeekly(_ context.Context, tenantID, employeeID uuid.UUID, w *schedule.Weekly) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	upsert(r.tx, s.weekly, scopedID{tenantID, employeeID}, schedule.ReconstructWeekly(w.Entries()))
	return nil
}

func (r scheduleRepo) Exception(_ context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (*schedule.Exception, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exceptions[exceptionKey{tenantID, employeeID, date.String()}], nil
}

func (r scheduleRepo) UpsertException(_ context.Context, tenantID, employeeID uuid.UUID, exc *schedule.Exception) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := schedule.ReconstructException(exc.Date(), exc.Type(), exc.Ranges(), exc.Reason())
	upsert(r.tx, s.exceptions, exceptionKey{tenantID, employeeID, exc.Date().String()}, stored)
	return nil
}

func (r scheduleRepo) DeleteException(_ context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (bool, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := exceptionKey{tenantID, employeeID, date.String()}
	prev, ok := s.exceptions[key]
	if !ok {
		return false, nil
	}
	delete(s.exceptions, key)
	r.tx.record(func() { s.exceptions[key] = prev })
	return true, nil
}

// -----------------------------------------------------------------------------
// appointments
// -----------------------------------------------------------------------------

type appointmentRepo struct{ tx *memTx }

func (r appointmentRepo) LockCalendars(ctx context.Context, keys ...shared.CalendarKey) error {
	for _, key := range shared.SortedKeys(keys) {
		k := key.String()
		if r.holds(k) {
			continue
		}
		if err := r.tx.store.acquire(ctx, k); err != nil {
			return err
		}
		r.tx.held = append(r.tx.held, k)
	}
	return nil
}

func (r appointmentRepo) holds(key string) bool {
	for _, h := range r.tx.held {
		if h == key {
			return true
		}
	}
	return false
}

func (r appointmentRepo) Occupied(_ context.Context, key shared.CalendarKey, exclude uuid.UUID) ([]schedule.Window, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schedule.Window
	for _, a := range s.appointments {
		if a.ID() == exclude || !sameCalendar(a, key) || !a.IsActive() {
			continue
		}
		out = append(out, a.Interval())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func sameCalendar(a *appointment.Appointment, key shared.CalendarKey) bool {
	return a.TenantID() == key.TenantID && a.EmployeeID() == key.EmployeeID && a.Date().Equal(key.Date)
}

// conflicts mirrors the exclusion constraint of the SQL schema. Callers hold store.mu.
func (s *Store) conflicts(a *appointment.Appointment) bool {
	if !a.IsActive() {
		return false
	}
	key := shared.CalendarKey{TenantID: a.TenantID(), EmployeeID: a.EmployeeID(), Date: a.Date()}
	for _, other := range s.appointments {
		if other.ID() == a.ID() || !other.IsActive() || !sameCalendar(other, key) {
			continue
		}
		if other.Interval().Overlaps(a.Interval()) {
			return true
		}
	}
	return false
}

func (r appointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appointments[a.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "appointment already exists")
	}
	if s.conflicts(a) {
		return infra.NewRepoErr(infra.KindConflict, "appointment overlaps an existing one")
	}
	id := a.ID()
	s.appointments[id] = copyAppointment(a)
	r.tx.record(func() { delete(s.appointments, id) })
	return nil
}

func (r appointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.appointments[a.ID()]
	if !ok || prev.TenantID() != a.TenantID() {
		return notFound("appointment")
	}
	if s.conflicts(a) {
		return infra.NewRepoErr(infra.KindConflict, "appointment overlaps an existing one")
	}
	id := a.ID()
	s.appointments[id] = copyAppointment(a)
	r.tx.record(func() { s.appointments[id] = prev })
	return nil
}

func (r appointmentRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok || a.TenantID() != tenantID {
		return nil, notFound("appointment")
	}
	return copyAppointment(a), nil
}

// FindForUpdate is FindByID; the calendar lock already excludes other writers.
func (r appointmentRepo) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	return r.FindByID(ctx, tenantID, id)
}

func (r appointmentRepo) ListByCalendar(_ context.Context, key shared.CalendarKey) ([]*appointment.Appointment, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range s.appointments {
		if sameCalendar(a, key) {
			out = append(out, copyAppointment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Interval().Start == out[j].Interval().Start {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].Interval().Start < out[j].Interval().Start
	})
	return out, nil
}

// -----------------------------------------------------------------------------
// reminders
// -----------------------------------------------------------------------------

type reminderRepo struct{ tx *memTx }

func (r reminderRepo) CreateBatch(_ context.Context, rs []*reminder.Reminder) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rem := range rs {
		if _, exists := s.reminders[rem.ID()]; exists {
			return infra.NewRepoErr(infra.KindDuplicateKey, "reminder already exists")
		}
	}
	for _, rem := range rs {
		upsert(r.tx, s.reminders, rem.ID(), copyReminder(rem))
	}
	return nil
}

func (r reminderRepo) CancelPending(_ context.Context, tenantID, appointmentID uuid.UUID) (int, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, rem := range s.reminders {
		if rem.TenantID() != tenantID || rem.AppointmentID() != appointmentID || rem.Status() != reminder.StatusPending {
			continue
		}
		cancelled := reminder.ReconstructReminder(
			rem.ID(), rem.TenantID(), rem.AppointmentID(), rem.Channel(), rem.Recipient(), rem.Data(),
			rem.ScheduledAt(), reminder.StatusCancelled, rem.Attempts(), rem.LastError(), rem.SentAt(), rem.CreatedAt(),
		)
		upsert(r.tx, s.reminders, id, cancelled)
		n++
	}
	return n, nil
}

func (r reminderRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]*reminder.Reminder, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*reminder.Reminder
	for id, rem := range s.reminders {
		if _, taken := s.claimed[id]; taken || !rem.IsDue(now) {
			continue
		}
		due = append(due, rem)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledAt().Before(due[j].ScheduledAt()) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	out := make([]*reminder.Reminder, 0, len(due))
	for _, rem := range due {
		s.claimed[rem.ID()] = struct{}{}
		r.tx.claimed = append(r.tx.claimed, rem.ID())
		out = append(out, copyReminder(rem))
	}
	return out, nil
}

func (r reminderRepo) Save(_ context.Context, rem *reminder.Reminder) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.reminders[rem.ID()]
	if !ok || prev.TenantID() != rem.TenantID() {
		return notFound("reminder")
	}
	upsert(r.tx, s.reminders, rem.ID(), copyReminder(rem))
	return nil
}

func (r reminderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*reminder.Reminder, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	rem, ok := s.reminders[id]
	if !ok || rem.TenantID() != tenantID {
		return nil, notFound("reminder")
	}
	return copyReminder(rem), nil
}

func (r reminderRepo) ListByStatus(_ context.Context, tenantID uuid.UUID, status reminder.Status, limit int) ([]*reminder.Reminder, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*reminder.Reminder
	for _, rem := range s.reminders {
		if rem.TenantID() == tenantID && rem.Status() == status {
			out = append(out, copyReminder(rem))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt().Before(out[j].ScheduledAt()) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

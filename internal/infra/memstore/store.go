// Package memstore is an in-process implementation of the unit of work.
// Every repository call is atomic; a failed transaction is rolled back through an undo log.
// Writers of one employee day are serialized by keyed locks held until the transaction ends.
package memstore

import (
	"context"
	"sort"
	"sync"
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

type scopedID struct {
	tenantID uuid.UUID
	id       uuid.UUID
}

type exceptionKey struct {
	tenantID   uuid.UUID
	employeeID uuid.UUID
	date       string
}

type Store struct {
	mu sync.Mutex

	tenants      map[uuid.UUID]*tenant.Tenant
	settings     map[uuid.UUID]tenant.Settings
	branches     map[scopedID]*catalog.Branch
	services     map[scopedID]*catalog.Service
	employees    map[scopedID]*catalog.Employee
	clients      map[scopedID]*catalog.Client
	weekly       map[scopedID]*schedule.Weekly
	exceptions   map[exceptionKey]*schedule.Exception
	appointments map[uuid.UUID]*appointment.Appointment
	reminders    map[uuid.UUID]*reminder.Reminder
	claimed      map[uuid.UUID]struct{}

	locksMu     sync.Mutex
	locks       map[string]chan struct{}
	lockTimeout time.Duration
}

var _ shared.UnitOfWork = (*Store)(nil)

func New(lockTimeout time.Duration) *Store {
	return &Store{
		tenants:      map[uuid.UUID]*tenant.Tenant{},
		settings:     map[uuid.UUID]tenant.Settings{},
		branches:     map[scopedID]*catalog.Branch{},
		services:     map[scopedID]*catalog.Service{},
		employees:    map[scopedID]*catalog.Employee{},
		clients:      map[scopedID]*catalog.Client{},
		weekly:       map[scopedID]*schedule.Weekly{},
		exceptions:   map[exceptionKey]*schedule.Exception{},
		appointments: map[uuid.UUID]*appointment.Appointment{},
		reminders:    map[uuid.UUID]*reminder.Reminder{},
		claimed:      map[uuid.UUID]struct{}{},
		locks:        map[string]chan struct{}{},
		lockTimeout:  lockTimeout,
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{store: s}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.Within(ctx, fn)
}

// PutTenant and the other Put methods seed reference data outside any transaction.
func (s *Store) PutTenant(t *tenant.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.ID()] = t
}

func (s *Store) PutSettings(tenantID uuid.UUID, settings tenant.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[tenantID] = settings
}

func (s *Store) PutBranch(b *catalog.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[scopedID{b.TenantID(), b.ID()}] = b
}

func (s *Store) PutService(svc *catalog.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[scopedID{svc.TenantID(), svc.ID()}] = svc
}

func (s *Store) PutEmployee(e *catalog.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[scopedID{e.TenantID(), e.ID()}] = e
}

func (s *Store) PutClient(c *catalog.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[scopedID{c.TenantID(), c.ID()}] = c
}

func (s *Store) PutWeekly(tenantID, employeeID uuid.UUID, w *schedule.Weekly) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly[scopedID{tenantID, employeeID}] = w
}

// Appointments returns copies of every stored appointment ordered by start instant.
func (s *Store) Appointments() []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*appointment.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, copyAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt().Before(out[j].StartAt()) })
	return out
}

// Reminders returns copies of every stored reminder ordered by send time.
func (s *Store) Reminders() []*reminder.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*reminder.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		out = append(out, copyReminder(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt().Before(out[j].ScheduledAt()) })
	return out
}

func (s *Store) lockChan(key string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

func (s *Store) acquire(ctx context.Context, key string) error {
	ch := s.lockChan(key)
	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-timeout:
		return infra.NewRepoErr(infra.KindLockTimeout, "calendar lock wait exceeded for "+key)
	case <-ctx.Done():
		return infra.WrapRepoErr("calendar lock wait cancelled", ctx.Err(), infra.KindLockTimeout)
	}
}

func copyAppointment(a *appointment.Appointment) *appointment.Appointment {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func copyReminder(r *reminder.Reminder) *reminder.Reminder {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

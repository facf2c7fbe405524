package appointment

import (
	"errors"
	"time"

	"booking-core/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus    = errors.New("invalid appointment status")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrMissingReference = errors.New("appointment requires tenant, branch, service, employee and client")
	ErrNoteTooLong      = errors.New("note exceeds maximum length")
)

const MaxNoteLength = 500

type Appointment struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	branchID   uuid.UUID
	serviceID  uuid.UUID
	employeeID uuid.UUID
	clientID   uuid.UUID
	date       schedule.Date
	interval   schedule.Window
	startAt    time.Time
	status     Status
	note       string
	createdAt  time.Time
	updatedAt  time.Time
}

type NewParams struct {
	TenantID   uuid.UUID
	BranchID   uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID uuid.UUID
	ClientID   uuid.UUID
	Date       schedule.Date
	Start      schedule.Minute
	Duration   int
	Location   *time.Location
	Status     Status
	Note       string
	Now        time.Time
}

func NewAppointment(p NewParams) (*Appointment, error) {
	if p.TenantID == uuid.Nil || p.BranchID == uuid.Nil || p.ServiceID == uuid.Nil ||
		p.EmployeeID == uuid.Nil || p.ClientID == uuid.Nil {
		return nil, ErrMissingReference
	}
	if p.Date.IsZero() {
		return nil, schedule.ErrInvalidDate
	}
	interval, err := schedule.NewWindow(p.Start, p.Start+schedule.Minute(p.Duration))
	if err != nil {
		return nil, err
	}
	status := p.Status
	if status == "" {
		status = StatusConfirmed
	}
	if !status.IsValid() || status == StatusCancelled {
		return nil, ErrInvalidStatus
	}
	if len(p.Note) > MaxNoteLength {
		return nil, ErrNoteTooLong
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Appointment{
		id:         uuid.New(),
		tenantID:   p.TenantID,
		branchID:   p.BranchID,
		serviceID:  p.ServiceID,
		employeeID: p.EmployeeID,
		clientID:   p.ClientID,
		date:       p.Date,
		interval:   interval,
		startAt:    p.Date.At(p.Start, loc),
		status:     status,
		note:       p.Note,
		createdAt:  p.Now,
		updatedAt:  p.Now,
	}, nil
}

func ReconstructAppointment(
	id, tenantID, branchID, serviceID, employeeID, clientID uuid.UUID,
	date schedule.Date,
	interval schedule.Window,
	startAt time.Time,
	status Status,
	note string,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:         id,
		tenantID:   tenantID,
		branchID:   branchID,
		serviceID:  serviceID,
		employeeID: employeeID,
		clientID:   clientID,
		date:       date,
		interval:   interval,
		startAt:    startAt,
		status:     status,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Cancel is idempotent; it reports whether the status changed.
func (a *Appointment) Cancel(now time.Time) bool {
	if a.status == StatusCancelled {
		return false
	}
	a.status = StatusCancelled
	a.updatedAt = now
	return true
}

type MoveParams struct {
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	Date       schedule.Date
	Start      schedule.Minute
	Duration   int
	Location   *time.Location
	Now        time.Time
}

func (a *Appointment) Move(p MoveParams) error {
	if a.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if p.EmployeeID == uuid.Nil || p.ServiceID == uuid.Nil {
		return ErrMissingReference
	}
	interval, err := schedule.NewWindow(p.Start, p.Start+schedule.Minute(p.Duration))
	if err != nil {
		return err
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	a.employeeID = p.EmployeeID
	a.serviceID = p.ServiceID
	a.date = p.Date
	a.interval = interval
	a.startAt = p.Date.At(p.Start, loc)
	a.updatedAt = p.Now
	return nil
}

func (a *Appointment) IsActive() bool {
	return a.status.Occupies()
}

func (a *Appointment) EndAt() time.Time {
	return a.startAt.Add(time.Duration(a.interval.Len()) * time.Minute)
}

func (a *Appointment) ID() uuid.UUID             { return a.id }
func (a *Appointment) TenantID() uuid.UUID       { return a.tenantID }
func (a *Appointment) BranchID() uuid.UUID       { return a.branchID }
func (a *Appointment) ServiceID() uuid.UUID      { return a.serviceID }
func (a *Appointment) EmployeeID() uuid.UUID     { return a.employeeID }
func (a *Appointment) ClientID() uuid.UUID       { return a.clientID }
func (a *Appointment) Date() schedule.Date       { return a.date }
func (a *Appointment) Interval() schedule.Window { return a.interval }
func (a *Appointment) StartAt() time.Time        { return a.startAt }
func (a *Appointment) Status() Status            { return a.status }
func (a *Appointment) Note() string              { return a.note }
func (a *Appointment) CreatedAt() time.Time      { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time      { return a.updatedAt }

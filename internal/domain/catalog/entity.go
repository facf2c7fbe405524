package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDuration   = errors.New("service duration must be positive")
	ErrNegativePrice     = errors.New("service price cannot be negative")
	ErrServiceInactive   = errors.New("service is not active")
	ErrServiceNotOffered = errors.New("employee does not offer this service")
	ErrEmployeeInactive  = errors.New("employee is not active")
	ErrBranchMismatch    = errors.New("employee does not belong to branch")
)

type Branch struct {
	id       uuid.UUID
	tenantID uuid.UUID
	name     string
	location *time.Location
}

func ReconstructBranch(id, tenantID uuid.UUID, name, timezone string) (*Branch, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Branch{id: id, tenantID: tenantID, name: name, location: loc}, nil
}

func (b *Branch) ID() uuid.UUID            { return b.id }
func (b *Branch) TenantID() uuid.UUID      { return b.tenantID }
func (b *Branch) Name() string             { return b.name }
func (b *Branch) Location() *time.Location { return b.location }

type Service struct {
	id              uuid.UUID
	tenantID        uuid.UUID
	name            string
	durationMinutes int
	price           decimal.Decimal
	active          bool
}

func NewService(tenantID uuid.UUID, name string, durationMinutes int, price decimal.Decimal) (*Service, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	return &Service{
		id:              uuid.New(),
		tenantID:        tenantID,
		name:            name,
		durationMinutes: durationMinutes,
		price:           price,
		active:          true,
	}, nil
}

func ReconstructService(id, tenantID uuid.UUID, name string, durationMinutes int, price decimal.Decimal, active bool) *Service {
	return &Service{
		id:              id,
		tenantID:        tenantID,
		name:            name,
		durationMinutes: durationMinutes,
		price:           price,
		active:          active,
	}
}

func (s *Service) Bookable() error {
	if !s.active {
		return ErrServiceInactive
	}
	if s.durationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

func (s *Service) ID() uuid.UUID          { return s.id }
func (s *Service) TenantID() uuid.UUID    { return s.tenantID }
func (s *Service) Name() string           { return s.name }
func (s *Service) DurationMinutes() int   { return s.durationMinutes }
func (s *Service) Price() decimal.Decimal { return s.price }
func (s *Service) Active() bool           { return s.active }

type Employee struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	branchID   uuid.UUID
	name       string
	active     bool
	serviceIDs map[uuid.UUID]struct{}
}

func ReconstructEmployee(id, tenantID, branchID uuid.UUID, name string, active bool, serviceIDs []uuid.UUID) *Employee {
	set := make(map[uuid.UUID]struct{}, len(serviceIDs))
	for _, sid := range serviceIDs {
		set[sid] = struct{}{}
	}
	return &Employee{
		id:         id,
		tenantID:   tenantID,
		branchID:   branchID,
		name:       name,
		active:     active,
		serviceIDs: set,
	}
}

// CanPerform checks the employee is active and offers the service.
func (e *Employee) CanPerform(serviceID uuid.UUID) error {
	if !e.active {
		return ErrEmployeeInactive
	}
	if _, ok := e.serviceIDs[serviceID]; !ok {
		return ErrServiceNotOffered
	}
	return nil
}

func (e *Employee) ServiceIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(e.serviceIDs))
	for id := range e.serviceIDs {
		out = append(out, id)
	}
	return out
}

func (e *Employee) ID() uuid.UUID       { return e.id }
func (e *Employee) TenantID() uuid.UUID { return e.tenantID }
func (e *Employee) BranchID() uuid.UUID { return e.branchID }
func (e *Employee) Name() string        { return e.name }
func (e *Employee) Active() bool        { return e.active }

type Client struct {
	id       uuid.UUID
	tenantID uuid.UUID
	name     string
	email    string
	phone    string
}

func ReconstructClient(id, tenantID uuid.UUID, name, email, phone string) *Client {
	return &Client{id: id, tenantID: tenantID, name: name, email: email, phone: phone}
}

func (c *Client) ID() uuid.UUID       { return c.id }
func (c *Client) TenantID() uuid.UUID { return c.tenantID }
func (c *Client) Name() string        { return c.name }
func (c *Client) Email() string       { return c.email }
func (c *Client) Phone() string       { return c.phone }

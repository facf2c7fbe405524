//go:build unit

package appointment_test

import (
	"strings"
	"testing"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() appointment.NewParams {
	return appointment.NewParams{
		TenantID:   uuid.New(),
		BranchID:   uuid.New(),
		ServiceID:  uuid.New(),
		EmployeeID: uuid.New(),
		ClientID:   uuid.New(),
		Date:       schedule.NewDate(2026, time.October, 13),
		Start:      9 * 60,
		Duration:   30,
		Now:        time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewAppointment(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		p := validParams()
		p.Location = tokyo

		a, err := appointment.NewAppointment(p)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, a.ID())
		assert.Equal(t, appointment.StatusConfirmed, a.Status())
		assert.Equal(t, schedule.Window{Start: 540, End: 570}, a.Interval())
		assert.Equal(t, "2026-10-13T09:00:00+09:00", a.StartAt().Format(time.RFC3339))
		assert.Equal(t, 30*time.Minute, a.EndAt().Sub(a.StartAt()))
		assert.True(t, a.IsActive())
		assert.Equal(t, p.Now, a.CreatedAt())
	})

	tests := []struct {
		name   string
		mutate func(*appointment.NewParams)
		errIs  error
	}{
		{name: "pending status", mutate: func(p *appointment.NewParams) { p.Status = appointment.StatusPending }},
		{name: "missing client", mutate: func(p *appointment.NewParams) { p.ClientID = uuid.Nil }, errIs: appointment.ErrMissingReference},
		{name: "missing date", mutate: func(p *appointment.NewParams) { p.Date = schedule.Date{} }, errIs: schedule.ErrInvalidDate},
		{name: "zero duration", mutate: func(p *appointment.NewParams) { p.Duration = 0 }, errIs: schedule.ErrInvalidWindow},
		{name: "crosses midnight", mutate: func(p *appointment.NewParams) { p.Start = 23*60 + 45 }, errIs: schedule.ErrInvalidWindow},
		{name: "cancelled status", mutate: func(p *appointment.NewParams) { p.Status = appointment.StatusCancelled }, errIs: appointment.ErrInvalidStatus},
		{name: "unknown status", mutate: func(p *appointment.NewParams) { p.Status = "booked" }, errIs: appointment.ErrInvalidStatus},
		{name: "lowercase status", mutate: func(p *appointment.NewParams) { p.Status = "confirmed" }, errIs: appointment.ErrInvalidStatus},
		{name: "note too long", mutate: func(p *appointment.NewParams) { p.Note = strings.Repeat("a", appointment.MaxNoteLength+1) }, errIs: appointment.ErrNoteTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			a, err := appointment.NewAppointment(p)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, a)
		})
	}
}

func TestAppointmentCancel(t *testing.T) {
	a, err := appointment.NewAppointment(validParams())
	require.NoError(t, err)

	later := time.Date(2026, time.October, 2, 8, 0, 0, 0, time.UTC)
	assert.True(t, a.Cancel(later))
	assert.Equal(t, appointment.StatusCancelled, a.Status())
	assert.False(t, a.IsActive())
	assert.Equal(t, later, a.UpdatedAt())

	assert.False(t, a.Cancel(later.Add(time.Hour)), "second cancel is a no-op")
	assert.Equal(t, later, a.UpdatedAt())
}

func TestAppointmentMove(t *testing.T) {
	a, err := appointment.NewAppointment(validParams())
	require.NoError(t, err)

	employee, service := uuid.New(), uuid.New()
	next := schedule.NewDate(2026, time.October, 14)
	now := time.Date(2026, time.October, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, a.Move(appointment.MoveParams{
		EmployeeID: employee,
		ServiceID:  service,
		Date:       next,
		Start:      14 * 60,
		Duration:   60,
		Now:        now,
	}))
	assert.Equal(t, employee, a.EmployeeID())
	assert.Equal(t, service, a.ServiceID())
	assert.True(t, a.Date().Equal(next))
	assert.Equal(t, schedule.Window{Start: 840, End: 900}, a.Interval())
	assert.Equal(t, "2026-10-14T14:00:00Z", a.StartAt().Format(time.RFC3339))

	a.Cancel(now)
	err = a.Move(appointment.MoveParams{EmployeeID: employee, ServiceID: service, Date: next, Start: 600, Duration: 30, Now: now})
	assert.ErrorIs(t, err, appointment.ErrAlreadyCancelled)
}

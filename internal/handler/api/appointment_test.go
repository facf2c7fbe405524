//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/tests/common/httptest"
	"booking-core/tests/common/testutil"
	commandsmock "booking-core/tests/mock/commands"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const tenantSlug = "acme"

type AppointmentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockAppointmentQueries
	mockTenants  *queriesmock.MockTenantQueries
	tenantID     uuid.UUID
}

func (s *AppointmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAppointmentQueries(s.mockCtrl)
	s.mockTenants = queriesmock.NewMockTenantQueries(s.mockCtrl)
	s.tenantID = uuid.New()

	s.mockTenants.EXPECT().Resolve(gomock.Any(), tenantSlug).
		Return(&queries.TenantView{ID: s.tenantID, Slug: tenantSlug, Active: true}, nil).AnyTimes()

	handler := api.NewAppointmentHandler(s.mockCommands, s.mockQueries)
	g := s.router.Group("/api", middleware.NewTenantMiddleware(s.mockTenants).RequireTenant())
	g.POST("/appointments", handler.Create)
	g.GET("/appointments", handler.List)
	g.GET("/appointments/:id", handler.Get)
	g.PUT("/appointments/:id", handler.Reschedule)
	g.DELETE("/appointments/:id", handler.Cancel)
}

func (s *AppointmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAppointmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AppointmentHandlerTestSuite))
}

func (s *AppointmentHandlerTestSuite) view() *queries.AppointmentView {
	date := schedule.NewDate(2026, time.October, 13)
	return &queries.AppointmentView{
		ID:         uuid.New(),
		TenantID:   s.tenantID,
		BranchID:   uuid.New(),
		ServiceID:  uuid.New(),
		EmployeeID: uuid.New(),
		ClientID:   uuid.New(),
		Date:       date,
		Start:      540,
		End:        570,
		StartAt:    date.At(540, time.UTC),
		EndAt:      date.At(570, time.UTC),
		Status:     appointment.StatusConfirmed,
	}
}

func createBody() map[string]any {
	return map[string]any{
		"branchId":   uuid.NewString(),
		"employeeId": uuid.NewString(),
		"serviceId":  uuid.NewString(),
		"clientId":   uuid.NewString(),
		"date":       "2026-10-13",
		"time":       "09:00",
	}
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestCreate() {
	url := "/api/appointments"

	s.Run("success: returns 201 Created with Location", func() {
		view := s.view()
		body := createBody()
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p commands.ReserveParams) (*queries.AppointmentView, error) {
				s.Equal(s.tenantID, p.TenantID)
				s.Equal(body["employeeId"], p.EmployeeID.String())
				s.Equal("2026-10-13", p.Date.String())
				s.Equal(schedule.Minute(540), p.Start)
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, tenantSlug)

		var got resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &got)
		s.Equal(view.ID, got.ID)
		s.Equal("09:00", got.Time)
		s.Equal("09:30", got.EndTime)
		s.Equal("CONFIRMED", got.Status)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/appointments/" + view.ID.String()})
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing employeeId", mutate: testutil.Field("employeeId", nil)},
			{name: "missing serviceId", mutate: testutil.Field("serviceId", nil)},
			{name: "missing clientId", mutate: testutil.Field("clientId", nil)},
			{name: "missing branchId", mutate: testutil.Field("branchId", nil)},
			{name: "missing date", mutate: testutil.Field("date", nil)},
			{name: "missing time", mutate: testutil.Field("time", nil)},
			{name: "malformed uuid", mutate: testutil.Field("employeeId", "not-a-uuid")},
			{name: "malformed date", mutate: testutil.Field("date", "13/10/2026")},
			{name: "malformed time", mutate: testutil.Field("time", "9am")},
			{name: "time past midnight", mutate: testutil.Field("time", "24:30")},
			{name: "note too long", mutate: testutil.Field("note", strings.Repeat("a", 501))},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), createBody(), tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, tenantSlug)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "slot taken", err: errs.Mark(errors.New("overlap"), errs.ErrSlotTaken), status: http.StatusConflict, code: "SLOT_TAKEN"},
			{name: "outside availability", err: errs.Mark(commands.ErrOutsideAvailability, errs.ErrValidation), status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
			{name: "unknown employee", err: errs.Mark(errors.New("employee"), errs.ErrNotFound), status: http.StatusNotFound, code: "NOT_FOUND"},
			{name: "lock timeout", err: errs.Mark(errors.New("lock"), errs.ErrTransientUnavailable), status: http.StatusServiceUnavailable, code: "TRANSIENT_UNAVAILABLE"},
			{name: "internal", err: errors.New("database exploded"), status: http.StatusInternalServerError, code: "INTERNAL"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBody(), tenantSlug)
				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.code)
				if tc.code == "INTERNAL" {
					s.NotContains(rec.Body.String(), "database exploded")
				}
			})
		}
	})

	s.Run("error: 400 without tenant header", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 404 for an unknown tenant", func() {
		s.mockTenants.EXPECT().Resolve(gomock.Any(), "ghost").
			Return(nil, errs.Mark(errors.New("tenant"), errs.ErrNotFound)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, createBody(), "ghost")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		view := s.view()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.tenantID, view.ID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments/"+view.ID.String(), nil, tenantSlug)

		var got resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal(view.ID, got.ID)
		s.Equal("2026-10-13", got.Date)
	})

	s.Run("error: malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments/abc", nil, tenantSlug)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.tenantID, id).
			Return(nil, errs.Mark(errors.New("appointment"), errs.ErrNotFound)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments/"+id.String(), nil, tenantSlug)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func (s *AppointmentHandlerTestSuite) TestList() {
	s.Run("success", func() {
		employeeID := uuid.New()
		s.mockQueries.EXPECT().ListByEmployeeDate(gomock.Any(), s.tenantID, employeeID, gomock.Any()).
			Return([]*queries.AppointmentView{s.view(), s.view()}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/api/appointments?employeeId="+employeeID.String()+"&date=2026-10-13", nil, tenantSlug)

		var got []resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Len(got, 2)
	})

	s.Run("error: missing employee", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments?date=2026-10-13", nil, tenantSlug)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

// ================================================================================
// TestReschedule / TestCancel
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestReschedule() {
	s.Run("success: keeps employee when omitted", func() {
		view := s.view()
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p commands.RescheduleParams) (*queries.AppointmentView, error) {
				s.Equal(view.ID, p.AppointmentID)
				s.Nil(p.EmployeeID)
				s.Equal("10:30", p.Start.String())
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/api/appointments/"+view.ID.String(),
			map[string]any{"date": "2026-10-13", "time": "10:30"}, tenantSlug)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: slot taken", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errors.New("overlap"), errs.ErrSlotTaken)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/api/appointments/"+uuid.NewString(),
			map[string]any{"date": "2026-10-13", "time": "10:30"}, tenantSlug)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "SLOT_TAKEN")
	})
}

func (s *AppointmentHandlerTestSuite) TestCancel() {
	s.Run("success: returns the cancelled appointment", func() {
		view := s.view()
		view.Status = appointment.StatusCancelled
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.tenantID, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/appointments/"+view.ID.String(), nil, tenantSlug)
		var got resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("CANCELLED", got.Status)
	})
}

//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/tests/common/httptest"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// tenantRouter mounts /api behind the real tenant middleware, resolving tenantSlug to tenantID.
func tenantRouter(ctrl *gomock.Controller, tenantID uuid.UUID) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	tenants := queriesmock.NewMockTenantQueries(ctrl)
	tenants.EXPECT().Resolve(gomock.Any(), tenantSlug).
		Return(&queries.TenantView{ID: tenantID, Slug: tenantSlug, Active: true}, nil).AnyTimes()

	r := gin.New()
	return r, r.Group("/api", middleware.NewTenantMiddleware(tenants).RequireTenant())
}

func TestSlotHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	tenantID, employeeID, serviceID := uuid.New(), uuid.New(), uuid.New()
	mockSlots := queriesmock.NewMockSlotQueries(ctrl)

	r, g := tenantRouter(ctrl, tenantID)
	g.GET("/slots", api.NewSlotHandler(mockSlots).List)

	url := "/api/slots?employeeId=" + employeeID.String() + "&serviceId=" + serviceID.String() + "&date=2026-10-13"

	t.Run("success: slots formatted as HH:MM", func(t *testing.T) {
		date := schedule.NewDate(2026, time.October, 13)
		mockSlots.EXPECT().Available(gomock.Any(), tenantID, employeeID, serviceID, date).
			Return(&queries.SlotsView{Date: date, EmployeeID: employeeID, ServiceID: serviceID, Step: 30,
				Slots: []schedule.Minute{600, 630, 660}}, nil).Times(1)

		rec := httptest.PerformRequest(t, r, http.MethodGet, url, nil, tenantSlug)

		var got resdto.SlotsResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &got)
		assert.Equal(t, "2026-10-13", got.Date)
		assert.Equal(t, []string{"10:00", "10:30", "11:00"}, got.Slots)
	})

	t.Run("success: empty day renders an empty list", func(t *testing.T) {
		mockSlots.EXPECT().Available(gomock.Any(), tenantID, employeeID, serviceID, gomock.Any()).
			Return(&queries.SlotsView{Date: schedule.NewDate(2026, time.October, 13)}, nil).Times(1)

		rec := httptest.PerformRequest(t, r, http.MethodGet, url, nil, tenantSlug)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"date":"2026-10-13","slots":[]}`, rec.Body.String())
	})

	t.Run("error: bad query", func(t *testing.T) {
		cases := map[string]string{
			"missing employee": "/api/slots?serviceId=" + serviceID.String() + "&date=2026-10-13",
			"malformed uuid":   "/api/slots?employeeId=x&serviceId=" + serviceID.String() + "&date=2026-10-13",
			"malformed date":   "/api/slots?employeeId=" + employeeID.String() + "&serviceId=" + serviceID.String() + "&date=2026-13-40",
		}
		for name, u := range cases {
			t.Run(name, func(t *testing.T) {
				rec := httptest.PerformRequest(t, r, http.MethodGet, u, nil, tenantSlug)
				httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
			})
		}
	})

	t.Run("error: unknown service", func(t *testing.T) {
		mockSlots.EXPECT().Available(gomock.Any(), tenantID, employeeID, serviceID, gomock.Any()).
			Return(nil, errs.Mark(errors.New("service"), errs.ErrNotFound)).Times(1)

		rec := httptest.PerformRequest(t, r, http.MethodGet, url, nil, tenantSlug)
		httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "NOT_FOUND")
	})
}

package api

import (
	"net/http"

	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	cmds commands.ReservationCommands
	q    queries.AppointmentQueries
}

func NewAppointmentHandler(cmds commands.ReservationCommands, q queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{cmds: cmds, q: q}
}

// Create reserves a slot. A lost race answers 409 SLOT_TAKEN.
func (h *AppointmentHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req reqdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request")
		return
	}
	params, err := req.ToParams(tid)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.cmds.Reserve(c.Request.Context(), params)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", "/api/appointments/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromAppointmentView(view))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), tid, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var query reqdto.ListAppointmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err, "Invalid query")
		return
	}
	date, err := reqdto.ParseDate(query.Date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	views, err := h.q.ListByEmployeeDate(c.Request.Context(), tid, uuid.MustParse(query.EmployeeID), date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentViews(views))
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request")
		return
	}
	params, err := req.ToParams(tid, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.cmds.Reschedule(c.Request.Context(), params)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// Cancel is idempotent and answers 200 with the cancelled appointment.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.cmds.Cancel(c.Request.Context(), tid, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

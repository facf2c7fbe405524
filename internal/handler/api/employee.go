package api

import (
	"net/http"

	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	cmds commands.ScheduleCommands
	q    queries.SlotQueries
}

func NewEmployeeHandler(cmds commands.ScheduleCommands, q queries.SlotQueries) *EmployeeHandler {
	return &EmployeeHandler{cmds: cmds, q: q}
}

func (h *EmployeeHandler) Availability(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var query reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err, "Invalid query")
		return
	}
	date, err := reqdto.ParseDate(query.Date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	view, err := h.q.Availability(c.Request.Context(), tid, employeeID, date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

func (h *EmployeeHandler) PutSchedule(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.WeeklyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request")
		return
	}
	entries, err := req.ToEntries()
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	weekly, err := h.cmds.UpsertWeekly(c.Request.Context(), tid, employeeID, entries)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWeekly(weekly))
}

func (h *EmployeeHandler) PutException(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, err := reqdto.ParseDate(c.Param("date"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	var req reqdto.ExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request")
		return
	}
	params, err := req.ToParams(tid, employeeID, date)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	exc, err := h.cmds.UpsertException(c.Request.Context(), params)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromException(exc))
}

func (h *EmployeeHandler) DeleteException(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, err := reqdto.ParseDate(c.Param("date"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	if err := h.cmds.DeleteException(c.Request.Context(), tid, employeeID, date); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"booking-core/internal/domain/reminder"
	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	cmds commands.ReminderCommands
	q    queries.ReminderQueries
}

func NewReminderHandler(cmds commands.ReminderCommands, q queries.ReminderQueries) *ReminderHandler {
	return &ReminderHandler{cmds: cmds, q: q}
}

// List defaults to FAILED reminders, the ones waiting for an operator.
func (h *ReminderHandler) List(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var query reqdto.ReminderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err, "Invalid query")
		return
	}

	views, err := h.q.List(c.Request.Context(), tid, reminder.Status(query.Status), query.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReminderViews(views))
}

func (h *ReminderHandler) Requeue(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.cmds.Requeue(c.Request.Context(), tid, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReminderView(view))
}

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

type SettingsHandler struct {
	cmds commands.SettingsCommands
	q    queries.TenantQueries
}

func NewSettingsHandler(cmds commands.SettingsCommands, q queries.TenantQueries) *SettingsHandler {
	return &SettingsHandler{cmds: cmds, q: q}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	view, err := h.q.Settings(c.Request.Context(), tid)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSettingsView(view))
}

func (h *SettingsHandler) Put(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req reqdto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request")
		return
	}

	settings, err := h.cmds.Upsert(c.Request.Context(), tid, req.ToPatch())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSettings(settings, true))
}

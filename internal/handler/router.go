package handler

import (
	"net/http"

	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Slots        *api.SlotHandler
	Appointments *api.AppointmentHandler
	Employees    *api.EmployeeHandler
	Settings     *api.SettingsHandler
	Reminders    *api.ReminderHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	h Handlers,
	tenantMiddleware *middleware.TenantMiddleware,
	limiter middleware.RateLimiter,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, tenantMiddleware, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, tenantMiddleware *middleware.TenantMiddleware, limiter middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	apiGroup.Use(tenantMiddleware.RequireTenant())
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/slots", Handler: h.Slots.List},
		})

		reserveLimit := middleware.RateLimit(limiter, "reserve")
		appointments := apiGroup.Group("/appointments")
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Appointments.Create, Mw: []gin.HandlerFunc{reserveLimit}},
				{Method: http.MethodGet, Path: "", Handler: h.Appointments.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Appointments.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Appointments.Reschedule, Mw: []gin.HandlerFunc{reserveLimit}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Appointments.Cancel},
			})
		}

		employees := apiGroup.Group("/employees/:id")
		{
			addRoutes(employees, []route{
				{Method: http.MethodGet, Path: "/availability", Handler: h.Employees.Availability},
				{Method: http.MethodPut, Path: "/schedule", Handler: h.Employees.PutSchedule},
				{Method: http.MethodPut, Path: "/exceptions/:date", Handler: h.Employees.PutException},
				{Method: http.MethodDelete, Path: "/exceptions/:date", Handler: h.Employees.DeleteException},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/settings", Handler: h.Settings.Get},
			{Method: http.MethodPut, Path: "/settings", Handler: h.Settings.Put},
			{Method: http.MethodGet, Path: "/reminders", Handler: h.Reminders.List},
			{Method: http.MethodPost, Path: "/reminders/:id/requeue", Handler: h.Reminders.Requeue},
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package api

import (
	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventplanner/cmd/middleware"
	"eventplanner/internal/service"
)

type Routers struct {
	Service    service.Service
	AdminToken string
	Mode       string
	Log        *zerolog.Logger
	// FrontendDir serves the static pages when set.
	FrontendDir string
}

func NewRouters(r *Routers) *ginext.Engine {
	mode := r.Mode
	if mode == "" {
		mode = "release"
	}
	app := ginext.New(mode)

	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	apiGroup.GET("/categories", r.Service.Categories)

	public := apiGroup.Group("/registration")
	public.GET("/form", r.Service.RegistrationForm)
	public.GET("/dates", r.Service.RegistrationDates)
	public.GET("/events", r.Service.RegistrationEvents)
	apiGroup.POST("/registrations", r.Service.Register)

	admin := apiGroup.Group("/admin", middleware.AdminAuth(r.AdminToken))
	admin.POST("/events", r.Service.CreateEvent)
	admin.GET("/events", r.Service.ListEvents)
	admin.GET("/registrations", r.Service.ListRegistrations)
	admin.GET("/registrations/dates", r.Service.AdminEventDates)
	admin.GET("/registrations/events", r.Service.AdminDateEvents)
	admin.GET("/registrations/export", r.Service.ExportRegistrations)
	admin.GET("/settings", r.Service.GetSettings)
	admin.PUT("/settings", r.Service.UpdateSettings)

	if dir := r.FrontendDir; dir != "" {
		app.GET("/", func(c *ginext.Context) {
			c.File(dir + "/index.html")
		})
		app.GET("/adm", func(c *ginext.Context) {
			c.File(dir + "/adm.html")
		})
		app.Static("/frontend", dir)
	}

	return app
}

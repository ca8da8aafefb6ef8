package api

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventInvite/cmd/middleware"
	"eventInvite/internal/service"
)

type Routers struct {
	Service     service.Service
	Auth        middleware.Authenticator
	Log         *zerolog.Logger
	Mode        string
	FrontendDir string
	// StorageDir is served under /storage so invitation images get public URLs.
	StorageDir string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New(r.Mode)

	app.Use(middleware.LoggingMiddleware(r.Log))
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AddAllowHeaders("Authorization")
	app.Use(cors.New(corsCfg))

	apiGroup := app.Group("/v1")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/signup", r.Service.SignUp)
	authGroup.POST("/signin", r.Service.SignIn)

	rsvpGroup := apiGroup.Group("/rsvp")
	rsvpGroup.GET("/:eventId/:guestId", r.Service.GetRSVP)
	rsvpGroup.PUT("/:eventId/:guestId", r.Service.AnswerRSVP)

	apiGroup.GET("/meta", r.Service.Meta)
	apiGroup.GET("/catalog", r.Service.Catalog)

	private := apiGroup.Group("", middleware.RequireAuth(r.Auth, r.Log))
	private.POST("/auth/signout", r.Service.SignOut)
	private.GET("/auth/session", r.Service.Session)

	private.POST("/events", r.Service.CreateEvent)
	private.GET("/events/current", r.Service.CurrentEvent)
	private.GET("/events/:id", r.Service.GetEvent)
	private.PUT("/events/:id", r.Service.UpdateEvent)
	private.GET("/events/:id/progress", r.Service.Progress)
	private.GET("/events/:id/steps/:step", r.Service.OpenStep)
	private.POST("/events/:id/design", r.Service.SaveDesign)

	private.POST("/events/:id/guests", r.Service.InviteGuest)
	private.GET("/events/:id/guests", r.Service.ListGuests)
	private.GET("/events/:id/guests/search", r.Service.SearchGuests)
	private.GET("/events/:id/guests/:guestId/qr", r.Service.GuestQR)

	private.POST("/events/:id/rsvps", r.Service.SaveHeadcount)
	private.GET("/events/:id/reports/:status", r.Service.Report)
	private.GET("/events/:id/reports/:status/csv", r.Service.ApprovedCSV)

	app.GET("/", func(c *ginext.Context) {
		c.File(filepath.Join(r.FrontendDir, "index.html"))
	})
	app.GET("/:eventId/:guestId", func(c *ginext.Context) {
		c.File(filepath.Join(r.FrontendDir, "rsvp.html"))
	})
	app.Static("/frontend", r.FrontendDir)
	if r.StorageDir != "" {
		app.Static("/storage", r.StorageDir)
	}

	return app
}

package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"sessionhub/cmd/middleware"
	"sessionhub/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	sessions := app.Group("/sessions")
	sessions.POST("", r.Service.CreateSession)
	sessions.GET("", r.Service.ListSessions)
	sessions.GET("/:idOrCode", r.Service.GetSession)
	sessions.GET("/:idOrCode/manage", r.Service.ManageSession)
	sessions.PUT("/:idOrCode", r.Service.UpdateSession)
	sessions.DELETE("/:idOrCode", r.Service.DeleteSession)

	attendance := app.Group("/attendance")
	attendance.POST("/:idOrCode/join", r.Service.Join)
	attendance.DELETE("/:idOrCode/leave/:attendanceCode", r.Service.Leave)
	attendance.DELETE("/:idOrCode/remove/:attendanceCode", r.Service.RemoveAttendee)
	attendance.GET("/:idOrCode/count", r.Service.CountAttendees)

	app.GET("/", func(c *ginext.Context) {
		c.File("./frontend/index.html")
	})
	app.GET("/session", func(c *ginext.Context) {
		c.File("./frontend/session.html")
	})
	app.GET("/manage", func(c *ginext.Context) {
		c.File("./frontend/manage.html")
	})
	app.Static("/frontend", "./frontend")

	return app
}

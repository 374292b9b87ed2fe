package api

import (
	"github.com/gin-contrib/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"eventpub/cmd/middleware"
	"eventpub/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	apiGroup := app.Group("/v1")

	apiGroup.POST("/events", r.Service.CreateEvent)
	apiGroup.GET("/events", r.Service.ListEvents)
	apiGroup.GET("/events/:key", r.Service.GetEvent)
	apiGroup.PUT("/events/:key", r.Service.UpdateEvent)
	apiGroup.DELETE("/events/:key", r.Service.DeleteEvent)
	apiGroup.GET("/events/:key/ics", r.Service.GetEventICS)
	apiGroup.POST("/events/:key/rsvp", r.Service.RSVP)
	apiGroup.DELETE("/events/:key/rsvp", r.Service.DeleteRSVP)

	app.POST("/webmention", r.Service.ReceiveWebmention)

	app.GET("/metrics", func(c *ginext.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	// canonical /{YYYY}/{MM}/{slug}-{key} permalinks and their .ics twins
	app.NoRoute(r.Service.ResolvePermalink)

	return app
}

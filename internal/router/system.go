package router

import (
	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/handler"
	"github.com/neslihan-na/playlearnkids-admin/static"
)

// registerSystemRoutes mounts the unauthenticated health and docs routes.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.StaticFS("/static", static.Files)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}

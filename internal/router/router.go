// Package router builds the Echo instance: global middleware, system
// routes and the authenticated /api/v1 admin API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/handler"
	"github.com/neslihan-na/playlearnkids-admin/internal/middleware"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
)

// NewRouter wires every route. Request ids and tracing run before the
// context logger, which every later middleware logs through.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	mw := middleware.NewMiddlewares(s, services.Auth)
	return newRouter(h, mw)
}

func newRouter(h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		mw.Global.CORS(),
		mw.Global.Secure(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api/v1",
		mw.Auth.RequireAuth,
		mw.Auth.RequireAdmin,
		mw.ContextEnhancer.EnhanceContext(),
	)
	registerAdminRoutes(api, h)

	return router
}

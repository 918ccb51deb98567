package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/logger"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Echo context keys.
const (
	UserIDKey    = "user_id"
	PrincipalKey = "principal"
	LoggerKey    = "logger"
)

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext stores a logger carrying request id, route, client ip and,
// once the auth middleware has run, the Clerk user and admin key. It is
// installed globally and again on the authenticated group.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if userID := GetUserID(c); userID != "" {
				contextLogger = contextLogger.With().Str("user_id", userID).Logger()
			}

			if p := GetPrincipal(c); p != nil {
				contextLogger = contextLogger.With().
					Str("admin_key", p.Key).
					Str("admin_source", p.Source).
					Logger()
			}

			c.Set(LoggerKey, &contextLogger)
			ctx := contextLogger.WithContext(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetPrincipal returns the admin resolved by RequireAdmin, or nil.
func GetPrincipal(c echo.Context) *model.Principal {
	if p, ok := c.Get(PrincipalKey).(*model.Principal); ok {
		return p
	}
	return nil
}

func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}

	l := zerolog.Nop()
	return &l
}

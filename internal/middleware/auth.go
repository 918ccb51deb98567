package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
)

// Authorizer maps an authenticated Clerk subject to an admin principal.
type Authorizer interface {
	Authorize(ctx context.Context, subject string) (*model.Principal, error)
}

// AuthMiddleware guards the admin API.
//
// Sessions verifies the bearer token and stores the subject under
// UserIDKey. It defaults to Clerk header authorization.
type AuthMiddleware struct {
	server     *server.Server
	authorizer Authorizer
	Sessions   echo.MiddlewareFunc
}

func NewAuthMiddleware(s *server.Server, authorizer Authorizer) *AuthMiddleware {
	auth := &AuthMiddleware{
		server:     s,
		authorizer: authorizer,
	}
	auth.Sessions = auth.clerkSessions
	return auth
}

// RequireAuth rejects requests without a valid session.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return auth.Sessions(next)
}

func (auth *AuthMiddleware) clerkSessions(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth.server.Logger.Warn().
					Str("function", "RequireAuth").
					Str("path", r.URL.Path).
					Msg("could not verify session token")

				writeUnauthorized(w)
			}))))(
		func(c echo.Context) error {
			start := time.Now()

			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				auth.server.Logger.Error().
					Str("function", "RequireAuth").
					Str("request_id", GetRequestID(c)).
					Dur("duration", time.Since(start)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			c.Set(UserIDKey, claims.Subject)

			auth.server.Logger.Debug().
				Str("function", "RequireAuth").
				Str("user_id", claims.Subject).
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("user authenticated successfully")

			return next(c)
		})
}

// RequireAdmin resolves the authenticated user to an admin principal.
// It must run after RequireAuth.
func (auth *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := GetUserID(c)
		if userID == "" {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		principal, err := auth.authorizer.Authorize(c.Request().Context(), userID)
		if err != nil {
			auth.server.Logger.Warn().
				Err(err).
				Str("function", "RequireAdmin").
				Str("user_id", userID).
				Str("request_id", GetRequestID(c)).
				Msg("admin access denied")
			return err
		}

		c.Set(PrincipalKey, principal)
		return next(c)
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false))
}

package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// SessionResolver is the slice of the identity service the middleware needs.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// Session resolves the session cookie on every request and injects the
// viewer into context. A missing or stale cookie yields an anonymous viewer;
// the request proceeds either way. Only a storage failure aborts.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}

			viewer, err := resolver.ResolveSession(c.Request().Context(), token)
			if err != nil {
				return err
			}
			if viewer != nil {
				c.Set("viewer", viewer)
				c.Set("viewer_id", viewer.ID)
			}

			return next(c)
		}
	}
}

// RequireAuth gates mutation routes: an anonymous viewer gets 401 via the
// central error handler.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get("viewer").(*domain.User); !ok {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

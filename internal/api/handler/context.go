package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// viewerID returns the resolved viewer's user id, or "" for anonymous
// requests. Handlers behind RequireAuth can rely on it being non-empty.
func viewerID(c echo.Context) string {
	id, _ := c.Get("viewer_id").(string)
	return id
}

// viewer returns the resolved viewer, or nil for anonymous requests.
func viewer(c echo.Context) *domain.User {
	u, _ := c.Get("viewer").(*domain.User)
	return u
}

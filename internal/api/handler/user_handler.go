package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/core/ports"
)

// UserHandler serves the current-user and profile views.
type UserHandler struct {
	feed ports.FeedService
}

func NewUserHandler(feed ports.FeedService) *UserHandler {
	return &UserHandler{feed: feed}
}

// Me handles GET /v1/me.
//
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(viewer(c)))
}

// Profile handles GET /v1/users/:id.
//
// @Summary      Get a user profile with their posts and liked posts
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	profile, err := h.feed.AssembleProfile(c.Request().Context(), c.Param("id"), viewerID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		User:       toUserResponse(profile.User),
		Posts:      toFeedPostResponses(profile.Posts),
		LikedPosts: toFeedPostResponses(profile.LikedPosts),
	})
}

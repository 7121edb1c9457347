package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/core/ports"
)

// FeedHandler serves the assembled feed view.
type FeedHandler struct {
	feed ports.FeedService
}

func NewFeedHandler(feed ports.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// Get handles GET /v1/feed.
//
// @Summary      Get the feed, most recent posts first
// @Tags         feed
// @Produce      json
// @Success      200  {object}  feedResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/feed [get]
func (h *FeedHandler) Get(c echo.Context) error {
	posts, err := h.feed.AssembleFeed(c.Request().Context(), viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedResponse{Posts: toFeedPostResponses(posts)})
}

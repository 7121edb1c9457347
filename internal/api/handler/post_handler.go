package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/core/ports"
)

// PostHandler handles HTTP requests for post creation, retrieval, and
// deletion, plus the like toggle.
type PostHandler struct {
	posts ports.PostService
	likes ports.LikeService
	feed  ports.FeedService
}

func NewPostHandler(posts ports.PostService, likes ports.LikeService, feed ports.FeedService) *PostHandler {
	return &PostHandler{posts: posts, likes: likes, feed: feed}
}

// Create handles POST /v1/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post title and content"
// @Success      201   {object}  feedPostResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	post, err := h.posts.Create(c.Request().Context(), ports.CreatePostInput{
		AuthorID: viewerID(c),
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}

	fp, err := h.feed.AssemblePost(c.Request().Context(), post.ID, viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toFeedPostResponse(fp))
}

// Get handles GET /v1/posts/:id.
//
// @Summary      Get a single post with author and viewer like state
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  feedPostResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	fp, err := h.feed.AssemblePost(c.Request().Context(), c.Param("id"), viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFeedPostResponse(fp))
}

// Delete handles DELETE /v1/posts/:id.
//
// @Summary      Delete a post (author only)
// @Tags         posts
// @Produce      json
// @Param        id   path  string  true  "Post id"
// @Success      204  "deleted"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.posts.Delete(c.Request().Context(), c.Param("id"), viewerID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike handles POST /v1/posts/:id/like.
//
// @Summary      Toggle the viewer's like on a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  toggleLikeResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	result, err := h.likes.Toggle(c.Request().Context(), c.Param("id"), viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toggleLikeResponse{
		Action:    result.Action,
		LikeCount: result.NewCount,
	})
}

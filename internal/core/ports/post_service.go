package ports

import (
	"context"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// CreatePostInput carries the data for a new post.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
}

// PostService defines use-case operations for posts.
type PostService interface {
	// Create stores a new post with a zero like counter. Fails with
	// domain.ErrUserNotFound when AuthorID does not resolve to a user.
	Create(ctx context.Context, in CreatePostInput) (*domain.Post, error)

	Get(ctx context.Context, postID string) (*domain.Post, error)

	// Delete removes the post. Fails with domain.ErrPostNotFound when the
	// post does not exist and domain.ErrForbidden when requesterID is not
	// the author. Liked-set references to the deleted post are deliberately
	// left in place; readers filter them against live posts.
	Delete(ctx context.Context, postID, requesterID string) error
}

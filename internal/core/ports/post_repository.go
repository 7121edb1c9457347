package ports

import (
	"context"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Insert(ctx context.Context, p *domain.Post) (*domain.Post, error)

	FindByID(ctx context.Context, id string) (*domain.Post, error)

	// ListAll returns a fresh snapshot of every post ordered by creation
	// time, most recent first. Each call re-queries the store; the result is
	// never a live cursor.
	ListAll(ctx context.Context) ([]*domain.Post, error)

	// Delete removes the post. Returns domain.ErrPostNotFound when absent.
	// Authorization is the service's job; the repository deletes blindly.
	Delete(ctx context.Context, id string) error

	// IncLikeCount adds one to the post's like counter and returns the new
	// value.
	IncLikeCount(ctx context.Context, id string) (int, error)

	// DecLikeCount subtracts one from the post's like counter, floored at
	// zero, and returns the new value. A counter already at zero is left
	// untouched.
	DecLikeCount(ctx context.Context, id string) (int, error)
}

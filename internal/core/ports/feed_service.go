package ports

import (
	"context"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// Profile is the view returned for a user page: the user's own posts plus
// the posts they like, already filtered to posts that still exist.
type Profile struct {
	User       *domain.User
	Posts      []*domain.FeedPost
	LikedPosts []*domain.FeedPost
}

// FeedService assembles viewer-relative views of posts.
type FeedService interface {
	// AssembleFeed joins all posts (most recent first) with their authors
	// and the viewer's like state. viewerID may be empty for anonymous
	// viewers. A post whose author cannot be resolved is kept with a nil
	// Author, never dropped, and the input ordering is preserved.
	AssembleFeed(ctx context.Context, viewerID string) ([]*domain.FeedPost, error)

	// AssemblePost builds the same view for a single post.
	AssemblePost(ctx context.Context, postID, viewerID string) (*domain.FeedPost, error)

	// AssembleProfile builds the profile view for a user.
	AssembleProfile(ctx context.Context, userID, viewerID string) (*Profile, error)
}

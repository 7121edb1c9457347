package ports

import "context"

// ToggleResult reports the outcome of a like toggle.
type ToggleResult struct {
	// Action is domain.ActionLiked or domain.ActionUnliked.
	Action string
	// NewCount is the post's like counter after the toggle.
	NewCount int
}

// LikeService flips a user's like on a post. The operation is its own
// inverse: two consecutive toggles with no interleaving toggle restore both
// the user's liked set and the post's counter.
type LikeService interface {
	Toggle(ctx context.Context, postID, userID string) (*ToggleResult, error)
}

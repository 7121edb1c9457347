package ports

import (
	"context"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindByExternalID performs an indexed exact-match lookup on the stable
	// login identifier. Returns domain.ErrUserNotFound when absent.
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByIDs resolves a batch of user ids in one query. Ids that do not
	// resolve are simply missing from the result map; no error is returned
	// for them.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)

	// UpsertOnLogin creates the user on first login or refreshes
	// username/avatar on subsequent ones. Uniqueness of external_id is
	// enforced by the store, not by look-then-insert, so concurrent logins
	// for the same identity can never produce two users.
	UpsertOnLogin(ctx context.Context, externalID, username, avatar string) (*domain.User, error)

	// AddLikedPost atomically adds postID to the user's liked set. The
	// returned bool is true when the set actually changed (the post was not
	// already liked).
	AddLikedPost(ctx context.Context, userID, postID string) (bool, error)

	// RemoveLikedPost atomically removes postID from the user's liked set.
	// The returned bool is true when the set actually changed.
	RemoveLikedPost(ctx context.Context, userID, postID string) (bool, error)
}

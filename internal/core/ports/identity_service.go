package ports

import (
	"context"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// LoginInput carries the profile fields resolved from an identity provider.
type LoginInput struct {
	ExternalID string // e.g. "github:12345"
	Username   string
	Avatar     string
}

// IdentityService resolves session credentials and performs logins.
type IdentityService interface {
	// ResolveSession maps a session token to the user it identifies.
	// A missing, malformed, or expired token — or one referencing a user
	// that no longer exists — resolves to (nil, nil): anonymous is a normal
	// viewer state, not an error. Only storage failures return an error.
	ResolveSession(ctx context.Context, token string) (*domain.User, error)

	// Login upserts the user for the given external identity and returns it.
	// Repeating a login never creates a duplicate account.
	Login(ctx context.Context, in LoginInput) (*domain.User, error)

	// LoginAnonymous mints a fresh cookie-only account.
	LoginAnonymous(ctx context.Context) (*domain.User, error)

	// IssueSession returns a signed session token for the user.
	IssueSession(userID string) (string, error)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/statusquo/feed-service/internal/api/metrics"
	"github.com/statusquo/feed-service/internal/core/domain"
	"github.com/statusquo/feed-service/internal/core/ports"
)

// IdentityService implements session resolution and login.
type IdentityService struct {
	users      ports.UserRepository
	secret     string
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewIdentityService(users ports.UserRepository, secret string, sessionTTL time.Duration, log zerolog.Logger) *IdentityService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &IdentityService{users: users, secret: secret, sessionTTL: sessionTTL, log: log}
}

// ResolveSession maps a session token to a user. Absent or bad tokens, and
// tokens pointing at a user that no longer exists, resolve to anonymous
// (nil, nil) rather than failing the request.
func (s *IdentityService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, ok := s.parseToken(token)
	if !ok {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Stale session: the cookie outlived the account.
			s.log.Debug().Str("user_id", userID).Msg("session references missing user")
			return nil, nil
		}
		return nil, storeFailure("resolve session", err)
	}
	return user, nil
}

// Login upserts the account for an external identity and returns it.
func (s *IdentityService) Login(ctx context.Context, in ports.LoginInput) (*domain.User, error) {
	user, err := s.users.UpsertOnLogin(ctx, in.ExternalID, in.Username, in.Avatar)
	if err != nil {
		return nil, storeFailure("login", err)
	}

	metrics.LoginsTotal.WithLabelValues(providerOf(in.ExternalID)).Inc()
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return user, nil
}

// LoginAnonymous mints a cookie-only account with a generated identity.
func (s *IdentityService) LoginAnonymous(ctx context.Context) (*domain.User, error) {
	id := uuid.NewString()
	return s.Login(ctx, ports.LoginInput{
		ExternalID: "anon:" + id,
		Username:   "guest-" + id[:8],
	})
}

// IssueSession returns a signed session token for the user, valid for the
// configured TTL.
func (s *IdentityService) IssueSession(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// parseToken validates the token signature and expiry and extracts the user
// id. Any defect in the token yields ok=false.
func (s *IdentityService) parseToken(token string) (string, bool) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}

// providerOf extracts the provider prefix from an external identifier,
// e.g. "github:12345" -> "github".
func providerOf(externalID string) string {
	if i := strings.IndexByte(externalID, ':'); i > 0 {
		return externalID[:i]
	}
	return "unknown"
}

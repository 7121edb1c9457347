package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/api/middleware"
	"github.com/statusquo/feed-service/internal/core/domain"
	"github.com/statusquo/feed-service/internal/core/ports"
)

type stubIdentityService struct {
	loginFn     func(ctx context.Context, in ports.LoginInput) (*domain.User, error)
	anonymousFn func(ctx context.Context) (*domain.User, error)
}

func (s *stubIdentityService) ResolveSession(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func (s *stubIdentityService) Login(ctx context.Context, in ports.LoginInput) (*domain.User, error) {
	return s.loginFn(ctx, in)
}

func (s *stubIdentityService) LoginAnonymous(ctx context.Context) (*domain.User, error) {
	return s.anonymousFn(ctx)
}

func (s *stubIdentityService) IssueSession(userID string) (string, error) {
	return "token-for-" + userID, nil
}

type stubOAuthProvider struct {
	exchangeFn func(ctx context.Context, code string) (ports.LoginInput, error)
}

func (s *stubOAuthProvider) AuthURL(state string) string {
	return "https://github.test/authorize?state=" + state
}

func (s *stubOAuthProvider) Exchange(ctx context.Context, code string) (ports.LoginInput, error) {
	return s.exchangeFn(ctx, code)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	res := rec.Result()
	defer res.Body.Close()
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Anonymous(t *testing.T) {
	identity := &stubIdentityService{
		anonymousFn: func(context.Context) (*domain.User, error) {
			return &domain.User{ID: "u1", Username: "guest-abc12345"}, nil
		},
	}
	h := NewAuthHandler(identity, &stubOAuthProvider{}, time.Hour)

	c, rec := newEchoContext(t, http.MethodPost, "/auth/anonymous", "")

	if err := h.Anonymous(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	ck := findCookie(rec, middleware.SessionCookie)
	if ck == nil {
		t.Fatal("session cookie not set")
	}
	if ck.Value != "token-for-u1" {
		t.Errorf("cookie value = %q", ck.Value)
	}
	if !ck.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if ck.MaxAge != 3600 {
		t.Errorf("cookie max-age = %d, want 3600", ck.MaxAge)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.Username != "guest-abc12345" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Anonymous_StoreFailure(t *testing.T) {
	identity := &stubIdentityService{
		anonymousFn: func(context.Context) (*domain.User, error) {
			return nil, domain.ErrStoreUnavailable
		},
	}
	h := NewAuthHandler(identity, &stubOAuthProvider{}, time.Hour)

	c, _ := newEchoContext(t, http.MethodPost, "/auth/anonymous", "")
	if err := h.Anonymous(c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestAuthHandler_GitHubRedirect(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{}, &stubOAuthProvider{}, time.Hour)

	c, rec := newEchoContext(t, http.MethodGet, "/auth/github", "")

	if err := h.GitHubRedirect(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	ck := findCookie(rec, "oauth_state")
	if ck == nil || ck.Value == "" {
		t.Fatal("state cookie not set")
	}
	loc := rec.Header().Get(echo.HeaderLocation)
	if loc != "https://github.test/authorize?state="+ck.Value {
		t.Errorf("redirect %q does not carry the state nonce", loc)
	}
}

func TestAuthHandler_GitHubCallback_Success(t *testing.T) {
	identity := &stubIdentityService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*domain.User, error) {
			if in.ExternalID != "github:42" {
				t.Fatalf("unexpected login input: %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username}, nil
		},
	}
	provider := &stubOAuthProvider{
		exchangeFn: func(_ context.Context, code string) (ports.LoginInput, error) {
			if code != "code123" {
				t.Fatalf("code = %q", code)
			}
			return ports.LoginInput{ExternalID: "github:42", Username: "alice"}, nil
		},
	}
	h := NewAuthHandler(identity, provider, time.Hour)

	c, rec := newEchoContext(t, http.MethodGet, "/auth/github/callback?state=s1&code=code123", "")
	c.Request().AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})

	if err := h.GitHubCallback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	ck := findCookie(rec, middleware.SessionCookie)
	if ck == nil || ck.Value != "token-for-u1" {
		t.Fatalf("session cookie not set after callback: %+v", ck)
	}
}

func TestAuthHandler_GitHubCallback_StateMismatch(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{}, &stubOAuthProvider{
		exchangeFn: func(context.Context, string) (ports.LoginInput, error) {
			t.Fatal("exchange must not run on a bad state")
			return ports.LoginInput{}, nil
		},
	}, time.Hour)

	for name, setup := range map[string]func(echo.Context){
		"no cookie": func(echo.Context) {},
		"mismatch": func(c echo.Context) {
			c.Request().AddCookie(&http.Cookie{Name: "oauth_state", Value: "other"})
		},
	} {
		c, _ := newEchoContext(t, http.MethodGet, "/auth/github/callback?state=s1&code=code123", "")
		setup(c)

		err := h.GitHubCallback(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 HTTPError, got %v", name, err)
		}
	}
}

func TestAuthHandler_GitHubCallback_ExchangeFailure(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{}, &stubOAuthProvider{
		exchangeFn: func(context.Context, string) (ports.LoginInput, error) {
			return ports.LoginInput{}, errors.New("upstream down")
		},
	}, time.Hour)

	c, _ := newEchoContext(t, http.MethodGet, "/auth/github/callback?state=s1&code=code123", "")
	c.Request().AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})

	err := h.GitHubCallback(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Signout(t *testing.T) {
	h := NewAuthHandler(&stubIdentityService{}, &stubOAuthProvider{}, time.Hour)

	c, rec := newEchoContext(t, http.MethodGet, "/auth/signout", "")

	if err := h.Signout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	ck := findCookie(rec, middleware.SessionCookie)
	if ck == nil {
		t.Fatal("session cookie not touched")
	}
	if ck.MaxAge >= 0 || ck.Value != "" {
		t.Errorf("cookie not expired: value=%q max-age=%d", ck.Value, ck.MaxAge)
	}
}

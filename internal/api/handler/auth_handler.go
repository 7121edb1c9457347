package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/statusquo/feed-service/internal/api/middleware"
	"github.com/statusquo/feed-service/internal/core/ports"
)

const stateCookie = "oauth_state"

// OAuthProvider is the slice of the GitHub client the handler uses.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (ports.LoginInput, error)
}

// AuthHandler handles login, logout, and the OAuth callback flow.
type AuthHandler struct {
	identity   ports.IdentityService
	github     OAuthProvider
	sessionTTL time.Duration
}

func NewAuthHandler(identity ports.IdentityService, github OAuthProvider, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{identity: identity, github: github, sessionTTL: sessionTTL}
}

// GitHubRedirect handles GET /auth/github — sends the browser to GitHub's
// authorization page with a fresh state nonce.
func (h *AuthHandler) GitHubRedirect(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, h.github.AuthURL(state))
}

// GitHubCallback handles GET /auth/github/callback — verifies the state
// nonce, exchanges the code for a profile, logs the user in, and sets the
// session cookie.
func (h *AuthHandler) GitHubCallback(c echo.Context) error {
	state := c.QueryParam("state")
	cookie, err := c.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		return echo.NewHTTPError(http.StatusBadRequest, "oauth state mismatch")
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing oauth code")
	}

	login, err := h.github.Exchange(c.Request().Context(), code)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "github authentication failed")
	}

	user, err := h.identity.Login(c.Request().Context(), login)
	if err != nil {
		return err
	}

	if err := h.setSession(c, user.ID); err != nil {
		return err
	}
	h.clearCookie(c, stateCookie)

	return c.Redirect(http.StatusFound, "/")
}

// Anonymous handles POST /auth/anonymous — mints a cookie-only account.
//
// @Summary      Create an anonymous account and session
// @Tags         auth
// @Produce      json
// @Success      201  {object}  userResponse
// @Failure      503  {object}  errorResponse
// @Router       /auth/anonymous [post]
func (h *AuthHandler) Anonymous(c echo.Context) error {
	user, err := h.identity.LoginAnonymous(c.Request().Context())
	if err != nil {
		return err
	}

	if err := h.setSession(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Signout handles GET /auth/signout — removes the session cookie.
func (h *AuthHandler) Signout(c echo.Context) error {
	h.clearCookie(c, middleware.SessionCookie)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setSession(c echo.Context, userID string) error {
	token, err := h.identity.IssueSession(userID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

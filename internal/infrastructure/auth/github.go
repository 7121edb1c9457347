// Package auth implements identity-provider clients. The only provider is
// GitHub: the callback code is exchanged for an access token and the user's
// profile is fetched to build the stable external identifier.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/statusquo/feed-service/internal/core/ports"
)

const githubUserURL = "https://api.github.com/user"

// GitHubProvider resolves GitHub OAuth callbacks to login inputs.
type GitHubProvider struct {
	conf *oauth2.Config

	// userURL is overridable in tests.
	userURL string
}

func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user"},
		},
		userURL: githubUserURL,
	}
}

// AuthURL returns the GitHub authorization page URL for the given state.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Exchange trades the callback code for an access token, fetches the GitHub
// profile, and maps it to a login input keyed "github:<numeric id>".
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (ports.LoginInput, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return ports.LoginInput{}, fmt.Errorf("github exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return ports.LoginInput{}, fmt.Errorf("github user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ports.LoginInput{}, fmt.Errorf("github user fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.LoginInput{}, fmt.Errorf("github user fetch: status %d", resp.StatusCode)
	}

	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return ports.LoginInput{}, fmt.Errorf("github user decode: %w", err)
	}
	if gu.Login == "" || gu.ID == 0 {
		return ports.LoginInput{}, fmt.Errorf("github user fetch: incomplete profile")
	}

	return ports.LoginInput{
		ExternalID: fmt.Sprintf("github:%d", gu.ID),
		Username:   gu.Login,
		Avatar:     gu.AvatarURL,
	}, nil
}

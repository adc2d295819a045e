package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubConfig holds configuration for the GitHub OAuth provider.
type GitHubConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
}

// GitHubProfile is the payload of GitHub's user endpoint.
type GitHubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

const githubUserURL = "https://api.github.com/user"

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGitHubAdapter creates the GitHub provider adapter. GitHub's web flow
// does not use PKCE.
func NewGitHubAdapter(cfg GitHubConfig) ProviderAdapter {
	return &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *githubAdapter) ProviderID() string {
	return ProviderGithub
}

func (a *githubAdapter) UsesPKCE() bool {
	return false
}

func (a *githubAdapter) Scopes() []string {
	return a.conf.Scopes
}

func (a *githubAdapter) AuthCodeURL(state, _ string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *githubAdapter) Exchange(ctx context.Context, code, _ string) (*oauth2.Token, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	return tok, nil
}

func (a *githubAdapter) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	headers := map[string]string{"Accept": "application/vnd.github+json"}

	raw, err := fetchJSON(ctx, a.httpClient, githubUserURL, token.AccessToken, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch github profile: %w", err)
	}

	var gp GitHubProfile
	if err := json.Unmarshal(raw, &gp); err != nil {
		return nil, fmt.Errorf("decode github profile: %w", err)
	}

	name := gp.Name
	if name == "" {
		name = gp.Login
	}

	return &Profile{
		ProviderAccountID: strconv.FormatInt(gp.ID, 10),
		Name:              name,
		Email:             gp.Email,
		AvatarURL:         gp.AvatarURL,
		Raw:               raw,
	}, nil
}

var _ ProviderAdapter = (*githubAdapter)(nil)

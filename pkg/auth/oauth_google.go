package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig holds configuration for the Google OAuth provider.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
}

// GoogleProfile is the payload of Google's OpenID userinfo endpoint.
type GoogleProfile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Picture       string `json:"picture"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Locale        string `json:"locale,omitempty"`
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type googleAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGoogleAdapter creates the Google provider adapter. Google requires
// PKCE in this flow.
func NewGoogleAdapter(cfg GoogleConfig) ProviderAdapter {
	return &googleAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *googleAdapter) ProviderID() string {
	return ProviderGoogle
}

func (a *googleAdapter) UsesPKCE() bool {
	return true
}

func (a *googleAdapter) Scopes() []string {
	return a.conf.Scopes
}

func (a *googleAdapter) AuthCodeURL(state, verifier string) string {
	return a.conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (a *googleAdapter) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	tok, err := a.conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	return tok, nil
}

func (a *googleAdapter) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	raw, err := fetchJSON(ctx, a.httpClient, googleUserinfoURL, token.AccessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch google profile: %w", err)
	}

	var gp GoogleProfile
	if err := json.Unmarshal(raw, &gp); err != nil {
		return nil, fmt.Errorf("decode google profile: %w", err)
	}

	return &Profile{
		ProviderAccountID: gp.Sub,
		Name:              gp.Name,
		Email:             gp.Email,
		AvatarURL:         gp.Picture,
		EmailVerified:     gp.EmailVerified,
		Raw:               raw,
	}, nil
}

var _ ProviderAdapter = (*googleAdapter)(nil)

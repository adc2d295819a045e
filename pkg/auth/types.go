package auth

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OAuth provider identifiers.
const (
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// AccountTypeOIDC is the account type recorded for OAuth/OIDC sign-ins.
const AccountTypeOIDC = "oidc"

// Authorized is the result of an integrator Authorize callback: the local
// user to mint a session for, and an optional post-sign-in redirect.
type Authorized struct {
	UserID   uuid.UUID
	Redirect string
}

// Profile is the normalized user profile fetched from an OAuth provider.
// Raw carries the unmodified provider response for integrators that need
// provider-specific fields.
type Profile struct {
	ProviderAccountID string
	Name              string
	Email             string
	AvatarURL         string
	EmailVerified     bool
	Raw               json.RawMessage
}

// Account is the normalized external-account record handed to the OAuth
// Authorize callback. The integrator owns persisting it and linking it to a
// local user.
type Account struct {
	Type                 string
	ProviderID           string
	ProviderAccountID    string
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresAt time.Time
	IDToken              string
	Scope                string
	SessionState         string
}

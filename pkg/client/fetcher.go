package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/authkit-go/authkit/pkg/session"
)

// HTTPFetcher fetches the session endpoint over HTTP. The http.Client
// should carry the cookie jar of the navigation it serves.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for {baseURL}/api/auth/session.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{baseURL: baseURL, client: client}
}

// FetchSession performs a single GET against the session endpoint. A 401
// resolves to (nil, nil): the server answered, there is just no user.
func (f *HTTPFetcher) FetchSession(ctx context.Context) (*session.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/auth/session", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var user session.User
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("decode session response: %w", err)
		}
		return &user, nil
	case http.StatusUnauthorized:
		return nil, nil
	default:
		return nil, fmt.Errorf("session endpoint returned status %d", resp.StatusCode)
	}
}

var _ SessionFetcher = (*HTTPFetcher)(nil)

package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetchJSON performs an authenticated GET against a provider API and
// returns the raw body. Non-200 responses are errors; bodies are capped at
// 1 MiB since profile payloads are small.
func fetchJSON(ctx context.Context, client *http.Client, url, accessToken string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider api returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

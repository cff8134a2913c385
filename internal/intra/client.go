package intra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient is a thin client for the 42 intra API that implements the
// IntraClient interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// Ensure APIClient implements the IntraClient interface.
var _ IntraClient = (*APIClient)(nil)

// NewClient creates a new intra client.
func NewClient(baseURL string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// GetCurrentUser fetches the profile behind the given bearer token.
func (c *APIClient) GetCurrentUser(ctx context.Context, token string) (*User, error) {
	url := c.BaseURL + "/v2/me"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call intra: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from intra", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode intra response: %w", err)
	}

	log.Debug("Resolved intra user", "login", user.Login, "intraID", user.ID)
	return &user, nil
}

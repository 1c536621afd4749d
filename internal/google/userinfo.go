package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bilogames/account-service/internal/domain"
)

const (
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	userInfoTimeout    = 10 * time.Second
)

type userInfoResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// UserInfoClient treats the credential as an OAuth access token and asks Google who it belongs to
type UserInfoClient struct {
	url        string
	httpClient *http.Client
}

func NewUserInfoClient(url string, httpClient *http.Client) *UserInfoClient {
	if url == "" {
		url = DefaultUserInfoURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: userInfoTimeout}
	}
	return &UserInfoClient{
		url:        url,
		httpClient: httpClient,
	}
}

func (c *UserInfoClient) Name() string {
	return "userinfo"
}

func (c *UserInfoClient) Resolve(ctx context.Context, credential string) (*domain.GoogleIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d", resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	if info.EmailVerified != nil && !*info.EmailVerified {
		return nil, fmt.Errorf("google email not verified")
	}

	return &domain.GoogleIdentity{
		GoogleID:   info.Sub,
		Email:      info.Email,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}, nil
}

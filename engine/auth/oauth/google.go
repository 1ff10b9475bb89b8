package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meetly/meetly/engine/auth/uc"
)

const (
	googleAuthEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenEndpoint    = "https://oauth2.googleapis.com/token"
	googleUserinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleConfig holds the client registration for Google OAuth.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider implements Provider against Google's OAuth2 endpoints.
type GoogleProvider struct {
	cfg    GoogleConfig
	client *http.Client

	tokenEndpoint    string
	userinfoEndpoint string
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		cfg:              cfg,
		client:           &http.Client{Timeout: 10 * time.Second},
		tokenEndpoint:    googleTokenEndpoint,
		userinfoEndpoint: googleUserinfoEndpoint,
	}
}

// AuthURL returns the Google authorization URL for the given state.
func (g *GoogleProvider) AuthURL(state string) string {
	params := url.Values{}
	params.Add("client_id", g.cfg.ClientID)
	params.Add("redirect_uri", g.cfg.RedirectURL)
	params.Add("response_type", "code")
	params.Add("scope", "openid email profile")
	params.Add("state", state)
	return googleAuthEndpoint + "?" + params.Encode()
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Exchange trades the authorization code for the user's verified identity.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*uc.Identity, error) {
	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", g.cfg.ClientID)
	data.Set("client_secret", g.cfg.ClientSecret)
	data.Set("redirect_uri", g.cfg.RedirectURL)
	data.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenEndpoint,
		strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("exchanging code: status %d: %s", resp.StatusCode, string(body))
	}
	var token googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	return g.userInfo(ctx, token.AccessToken)
}

func (g *GoogleProvider) userInfo(ctx context.Context, accessToken string) (*uc.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetching user info: status %d: %s", resp.StatusCode, string(body))
	}
	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding user info: %w", err)
	}
	return &uc.Identity{
		ExternalID: user.ID,
		Email:      user.Email,
		Name:       user.Name,
	}, nil
}

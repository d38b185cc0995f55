package gotrue

import (
	"context"
	"errors"
	"strings"
	"time"

	"animal-registry/internal/platform/httpclient"
	"animal-registry/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("gotrue client not configured")
)

// Client consulta el endpoint /user del identity provider (GoTrue) para
// resolver un access token a su usuario. No validamos JWTs localmente:
// el provider es la autoridad.
type Client struct {
	http   *httpclient.Client
	apiKey string
}

type Config struct {
	BaseURL string // p.ej. https://<proyecto>.supabase.co/auth/v1
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) UserFromToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if c.apiKey != "" {
		headers["apikey"] = c.apiKey
	}

	var u userResponse
	if err := c.http.DoJSON(ctx, "GET", "/user", headers, nil, &u); err != nil {
		return auth.Claims{}, err
	}

	return auth.Claims{
		UserID: strings.TrimSpace(u.ID),
		Email:  strings.TrimSpace(u.Email),
	}, nil
}

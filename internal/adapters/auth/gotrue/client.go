package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lawn-care-scheduler/internal/platform/httpclient"
	"lawn-care-scheduler/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("gotrue client not configured")
	ErrUpstream      = errors.New("gotrue upstream error")
)

// Config del proveedor de identidad (GoTrue / Supabase Auth).
type Config struct {
	BaseURL string // p.ej. https://xyz.supabase.co
	APIKey  string // anon key; va en el header "apikey"

	Timeout time.Duration

	// Solo tests.
	Transport http.RoundTripper
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   timeout,
		Transport: cfg.Transport,
		Headers:   map[string]string{"apikey": strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GetUser resuelve el usuario dueño del access token (GET /auth/v1/user).
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	var out userResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/auth/v1/user",
		map[string]string{"Authorization": "Bearer " + token}, nil, &out)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrInvalidToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	id := strings.TrimSpace(out.ID)
	if id == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing id", ErrUpstream)
	}
	return auth.Claims{
		UserID: id,
		Email:  strings.TrimSpace(out.Email),
		Role:   strings.TrimSpace(out.Role),
	}, nil
}

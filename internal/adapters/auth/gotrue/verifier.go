package gotrue

import (
	"context"
	"strings"

	"lawn-care-scheduler/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier preguntando al proveedor por cada token.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return v.client.GetUser(ctx, token)
}

package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token y devuelve claims o ErrInvalidToken.
// No hay identidad por defecto: sin verifier no hay claims.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

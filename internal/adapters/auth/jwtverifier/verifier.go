package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lawn-care-scheduler/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("jwt secret not configured")

type Config struct {
	Secret string
	// Audience opcional (Supabase usa "authenticated").
	Audience string
	// Margen para exp/nbf.
	Leeway time.Duration
}

// Verifier implementa auth.AuthVerifier validando tokens HS256 localmente.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func New(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	claims := &tokenClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: subject claim required", auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(claims.Email),
		Role:   strings.TrimSpace(claims.Role),
	}, nil
}

package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lawn-care-scheduler/internal/platform/logger"
	"lawn-care-scheduler/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type testVerifier struct{}

func (testVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	switch token {
	case "good":
		return auth.Claims{UserID: "user-1", Email: "a@example.com"}, nil
	case "empty-sub":
		return auth.Claims{}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func claimsProbe(got *auth.Claims, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = GetClaims(r.Context())
	})
}

func TestAuthContext(t *testing.T) {
	tests := []struct {
		name     string
		verifier auth.AuthVerifier
		header   string
		wantOK   bool
	}{
		{"valid bearer", testVerifier{}, "Bearer good", true},
		{"case-insensitive scheme", testVerifier{}, "bearer good", true},
		{"no header", testVerifier{}, "", false},
		{"basic scheme", testVerifier{}, "Basic good", false},
		{"rejected token", testVerifier{}, "Bearer nope", false},
		{"claims without subject", testVerifier{}, "Bearer empty-sub", false},
		{"no verifier", nil, "Bearer good", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got auth.Claims
				ok  bool
			)
			h := AuthContext(tt.verifier)(claimsProbe(&got, &ok))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if ok != tt.wantOK {
				t.Fatalf("claims present = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.UserID != "user-1" {
				t.Fatalf("unexpected claims: %+v", got)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Output: &buf})

	var inner logger.Logger
	h := chimw.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = LoggerFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if inner == nil {
		t.Fatalf("expected request logger in context")
	}
	out := buf.String()
	for _, want := range []string{"http request", "status=418", "path=/health", "request_id="} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line %q", want, out)
		}
	}
}

func TestLoggerFrom_NeverNil(t *testing.T) {
	if LoggerFrom(context.Background()) == nil {
		t.Fatalf("expected discard logger")
	}
}

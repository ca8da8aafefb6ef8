package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventInvite/internal/auth"
)

type fakeAuth struct {
	err error
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (*auth.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token != "good" {
		return nil, auth.ErrUnauthorized
	}
	return &auth.Principal{OrganizerID: "org-1", SessionID: "s-1"}, nil
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	tests := []struct {
		name   string
		auth   fakeAuth
		header string
		status int
	}{
		{"missing header", fakeAuth{}, "", http.StatusUnauthorized},
		{"wrong scheme", fakeAuth{}, "Basic good", http.StatusUnauthorized},
		{"bad token", fakeAuth{}, "Bearer bad", http.StatusUnauthorized},
		{"store failure", fakeAuth{err: errors.New("db down")}, "Bearer good", http.StatusInternalServerError},
		{"valid", fakeAuth{}, "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(LoggingMiddleware(&log), RequireAuth(tt.auth, &log))
			r.GET("/me", func(c *gin.Context) {
				v, _ := c.Get(auth.PrincipalKey)
				c.String(http.StatusOK, v.(*auth.Principal).OrganizerID)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != "org-1" {
				t.Errorf("Expected principal in context, got %q", w.Body.String())
			}
		})
	}
}

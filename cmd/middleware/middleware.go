package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventInvite/internal/auth"
	"eventInvite/internal/dto"
)

func LoggingMiddleware(log *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// Authenticator resolves a bearer token to the organizer behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// RequireAuth rejects requests without a live session and stores the
// principal under auth.PrincipalKey.
func RequireAuth(a Authenticator, log *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			dto.UnauthorizedError(c)
			c.Abort()
			return
		}

		p, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthorized) {
				log.Error().Err(err).Msg("failed to check session")
				dto.InternalServerError(c)
			} else {
				dto.UnauthorizedError(c)
			}
			c.Abort()
			return
		}

		c.Set(auth.PrincipalKey, p)
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// A private key for context access
type contextKey string

const subjectContextKey = contextKey("authSubject")

// Auth verifies the bearer ID token and exposes the identity
// provider's subject to downstream handlers. The subject is the only
// thing this layer knows about identity.
func Auth(client *auth.Client, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := client.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), subjectContextKey, token.UID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthSubject returns the verified external subject, or "" when the
// request was not authenticated.
func AuthSubject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectContextKey).(string)
	return subject
}

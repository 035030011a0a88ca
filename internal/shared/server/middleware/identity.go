package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lawyerup-backend/internal/shared/auth"
	"lawyerup-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userNameKey = "userName"
	verifiedKey = "identityVerified"
)

// Identity records the caller identity established upstream. A bearer token
// is verified and its claims used; otherwise the gateway headers X-User-Id and
// X-User-Name are trusted as-is. Requests without either carry no identity
// and handlers decide whether that is acceptable.
func Identity(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" || verifier == nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, claims.Subject)
			c.Set(verifiedKey, true)
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			c.Next()
			return
		}

		if id := strings.TrimSpace(c.GetHeader("X-User-Id")); id != "" {
			c.Set(userIDKey, id)
			if name := strings.TrimSpace(c.GetHeader("X-User-Name")); name != "" {
				c.Set(userNameKey, name)
			}
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// VerifiedIdentity reports whether the user ID came from a verified token
// rather than a gateway header.
func VerifiedIdentity(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(verifiedKey)
}

// UserNameFromContext fetches the display name set by the identity middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userNameKey)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/basso-ws/workspace-backend/internal/session/repository"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// Principal is the resolved caller of an authenticated request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// WithSession resolves the Bearer token to a stored session snapshot and
// stashes the principal in the request context. The role here mirrors what
// the backing store enforces authoritatively; it is a UX check, not a
// security boundary.
func WithSession(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		sess, err := store.GetByToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxEmail, sess.Email)
		c.Set(CtxRole, sess.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "insufficient role"})
		c.Abort()
	}
}

// CurrentPrincipal reads the principal set by WithSession.
func CurrentPrincipal(c *gin.Context) Principal {
	return Principal{
		UserID: c.GetString(CtxUserID),
		Email:  c.GetString(CtxEmail),
		Role:   c.GetString(CtxRole),
	}
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}

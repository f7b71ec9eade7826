package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/service"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

// Context keys set by AuthMiddleware.
const (
	ContextHomeownerIDKey = "homeowner_id"
	ContextRoleKey        = "role"
	ContextSessionKey     = "upstream_session"
)

// AuthMiddleware validates the Bearer token and stores the homeowner's
// upstream session on the context.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "Invalid authorization header")
			return
		}

		homeownerID, role, cookie, err := tokens.ParseAccess(parts[1])
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		if role != service.RoleHomeowner {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "This dashboard is for homeowners",
			})
			return
		}

		c.Set(ContextHomeownerIDKey, homeownerID)
		c.Set(ContextRoleKey, role)
		c.Set(ContextSessionKey, upstream.Session{HomeownerID: homeownerID, Cookie: cookie})
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// SessionFromContext pulls the upstream session set by AuthMiddleware.
func SessionFromContext(c *gin.Context) (upstream.Session, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return upstream.Session{}, false
	}
	sess, ok := v.(upstream.Session)
	return sess, ok
}

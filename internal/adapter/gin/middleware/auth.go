package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"grocery-delivery-service/internal/usecase/shared"
	"grocery-delivery-service/pkg/logger"
	"grocery-delivery-service/pkg/token"
)

const actorKey = "actor"

// TokenParser verifies session tokens.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// Authenticate requires a valid session from the cookie or a bearer token and
// stores the account on the context.
func Authenticate(tokens TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c, cookieName)
		if raw == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
			return
		}

		c.Set(actorKey, shared.Actor{ID: claims.AccountID, Role: claims.Role})
		ctx := logger.WithAccount(c.Request.Context(), strconv.FormatInt(claims.AccountID, 10), claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	return ""
}

// RequireRoles lets the request through only for the listed roles.
// It must run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := actorFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !slices.Contains(roles, a.Role) {
			abort(c, http.StatusForbidden, "forbidden", "you do not have access to this resource")
			return
		}
		c.Next()
	}
}

// RequireAdmin accepts admins and superadmins.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(token.RoleAdmin, token.RoleSuperAdmin)
}

func actorFrom(c *gin.Context) (shared.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return shared.Actor{}, false
	}
	a, ok := v.(shared.Actor)
	return a, ok
}

// GetActor returns the authenticated account, or the zero Actor.
func GetActor(c *gin.Context) shared.Actor {
	a, _ := actorFrom(c)
	return a
}

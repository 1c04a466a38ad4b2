package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/shared/auth"
	"inspection-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	shopIDKey    = "shopId"
	userRoleKey  = "userRole"
	userEmailKey = "userEmail"
)

var publicPrefixes = []string{
	"/api/v1/public/",
	"/api/v1/health",
	"/s/",
	"/metrics",
}

// Auth validates bearer tokens and stores the technician and shop in context.
// In dev-like environments X-User-Id and X-Shop-Id headers are accepted when
// no token is sent.
func Auth(verifier *auth.Verifier, devLike bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") || verifier == nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			claims, err := verifier.Verify(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(userIDKey, claims.Sub)
			c.Set(shopIDKey, claims.ShopID)
			if claims.Role != "" {
				c.Set(userRoleKey, claims.Role)
			}
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			c.Next()
			return
		}

		if devLike {
			userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
			shopID := strings.TrimSpace(c.GetHeader("X-Shop-Id"))
			if userID != "" && shopID != "" {
				c.Set(userIDKey, userID)
				c.Set(shopIDKey, shopID)
				c.Next()
				return
			}
		}

		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// ShopIDFromContext fetches the shop ID set by the auth middleware.
func ShopIDFromContext(c *gin.Context) string {
	return stringFromContext(c, shopIDKey)
}

// UserRoleFromContext fetches the role claim, if any.
func UserRoleFromContext(c *gin.Context) string {
	return stringFromContext(c, userRoleKey)
}

// UserEmailFromContext fetches the email claim, if any.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

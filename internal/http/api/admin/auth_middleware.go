package admin

import (
	"net/http"
	"strings"

	"github.com/campusfront/campusfront/internal/config"
	"github.com/campusfront/campusfront/internal/permission"
	"github.com/campusfront/campusfront/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// adminAuthMiddleware validates admin JWTs and loads the resolved
// authorization profile into context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	resolver := permission.NewResolver(db)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// The profile is resolved per request so revocations and permission
		// edits take effect without waiting for token expiry.
		profile, errResolve := resolver.Resolve(c.Request.Context(), claims.AdminID)
		if errResolve != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}

		c.Set("adminID", profile.AdminID)
		c.Set("adminProfile", profile)
		c.Next()
	}
}

package admin

import (
	"net/http"

	"github.com/campusfront/campusfront/internal/permission"
	"github.com/gin-gonic/gin"
)

// routePermissions maps "METHOD /full/path" to the permission the route
// requires. An empty permission means any authenticated admin may call it.
// Routes absent from the map are denied outright.
var routePermissions = map[string]permission.Permission{
	"GET /v0/admin/auth/me":       "",
	"PUT /v0/admin/auth/password": "",

	"GET /v0/admin/mfa/status":        "",
	"POST /v0/admin/mfa/totp/prepare": "",
	"POST /v0/admin/mfa/totp/confirm": "",
	"POST /v0/admin/mfa/totp/disable": "",

	"GET /v0/admin/permissions": "",

	"GET /v0/admin/admins":             permission.PermAdminManagement,
	"GET /v0/admin/admins/:id":         permission.PermAdminManagement,
	"PUT /v0/admin/admins/:id":         permission.PermAdminManagement,
	"POST /v0/admin/admins/:id/enable": permission.PermAdminManagement,
	"POST /v0/admin/admins/:id/disable": permission.PermAdminManagement,
	"DELETE /v0/admin/admins/:id":      permission.PermAdminManagement,

	"POST /v0/admin/invitations":       permission.PermAdminManagement,
	"GET /v0/admin/invitations":        permission.PermAdminManagement,
	"DELETE /v0/admin/invitations/:id": permission.PermAdminManagement,

	"POST /v0/admin/schools":           permission.PermSchoolManagement,
	"GET /v0/admin/schools":            permission.PermSchoolManagement,
	"GET /v0/admin/schools/:id":        permission.PermSchoolManagement,
	"PUT /v0/admin/schools/:id":        permission.PermSchoolManagement,
	"DELETE /v0/admin/schools/:id":     permission.PermSchoolManagement,
	"GET /v0/admin/schools/:id/theme":  permission.PermSchoolManagement,
	"PUT /v0/admin/schools/:id/theme":  permission.PermSchoolManagement,

	"GET /v0/admin/schools/:id/pages":                                permission.PermContentManagement,
	"POST /v0/admin/schools/:id/pages":                               permission.PermContentManagement,
	"GET /v0/admin/schools/:id/pages/:slug":                          permission.PermContentManagement,
	"PUT /v0/admin/schools/:id/pages/:slug":                          permission.PermContentManagement,
	"DELETE /v0/admin/schools/:id/pages/:slug":                       permission.PermContentManagement,
	"POST /v0/admin/schools/:id/pages/:slug/sections":                permission.PermContentManagement,
	"PUT /v0/admin/schools/:id/pages/:slug/sections/:sectionID":      permission.PermContentManagement,
	"POST /v0/admin/schools/:id/pages/:slug/sections/:sectionID/move": permission.PermContentManagement,
	"DELETE /v0/admin/schools/:id/pages/:slug/sections/:sectionID":   permission.PermContentManagement,

	"POST /v0/admin/uploads": permission.PermContentManagement,

	"POST /v0/admin/messages":      permission.PermMessaging,
	"GET /v0/admin/messages":       permission.PermMessaging,
	"GET /v0/admin/messages/stats": permission.PermMessaging,

	"GET /v0/admin/templates":        permission.PermMessaging,
	"POST /v0/admin/templates":       permission.PermMessaging,
	"PUT /v0/admin/templates/:id":    permission.PermMessaging,
	"DELETE /v0/admin/templates/:id": permission.PermMessaging,

	"GET /v0/admin/subscriptions":       permission.PermSubscriptionManagement,
	"POST /v0/admin/subscriptions":      permission.PermSubscriptionManagement,
	"PUT /v0/admin/subscriptions/:id":   permission.PermSubscriptionManagement,
	"GET /v0/admin/subscriptions/stats": permission.PermAnalytics,

	"GET /v0/admin/requests":            permission.PermSchoolManagement,
	"PUT /v0/admin/requests/:id/status": permission.PermSchoolManagement,

	"GET /v0/admin/tasks":        permission.PermSchoolManagement,
	"POST /v0/admin/tasks":       permission.PermSchoolManagement,
	"PUT /v0/admin/tasks/:id":    permission.PermSchoolManagement,
	"DELETE /v0/admin/tasks/:id": permission.PermSchoolManagement,

	"GET /v0/admin/settings": permission.PermSystemSettings,
	"PUT /v0/admin/settings": permission.PermSystemSettings,
}

// adminPermissionMiddleware enforces the per-route permission map against
// the resolved profile. School scoping is enforced in the handlers, where
// the target school is known.
func adminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		required, ok := routePermissions[c.Request.Method+" "+path]
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		profile, okProfile := readProfileFromContext(c)
		if !okProfile {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}

		if required == "" {
			c.Next()
			return
		}
		if !profile.HasPermission(required, 0) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		c.Next()
	}
}

// readProfileFromContext extracts the resolved profile from the gin context.
func readProfileFromContext(c *gin.Context) (*permission.Profile, bool) {
	value, ok := c.Get("adminProfile")
	if !ok {
		return nil, false
	}
	profile, ok := value.(*permission.Profile)
	return profile, ok
}

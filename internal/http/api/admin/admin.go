// Package admin registers the authenticated management API under /v0/admin.
package admin

import (
	"github.com/campusfront/campusfront/internal/cache"
	"github.com/campusfront/campusfront/internal/config"
	"github.com/campusfront/campusfront/internal/http/api/admin/handlers"
	"github.com/campusfront/campusfront/internal/invitation"
	"github.com/campusfront/campusfront/internal/messaging"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps bundles the dependencies of the admin API.
type Deps struct {
	DB        *gorm.DB
	JWT       config.JWTConfig
	Cache     *cache.Cache
	Messenger *messaging.Service
	Invites   *invitation.Service
	Uploads   config.UploadsConfig
}

// RegisterAdminRoutes registers public login routes and the authenticated
// admin API.
func RegisterAdminRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	group := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT)
	group.POST("/auth/login", authHandler.Login)
	group.POST("/auth/login/totp", authHandler.LoginTOTP)

	authed := group.Group("")
	authed.Use(adminAuthMiddleware(deps.DB, deps.JWT))
	authed.Use(adminPermissionMiddleware())

	authed.GET("/auth/me", authHandler.Me)
	authed.PUT("/auth/password", authHandler.ChangePassword)

	mfaHandler := handlers.NewMFAHandler(deps.DB)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	authed.GET("/permissions", handlers.ListPermissions)

	adminHandler := handlers.NewAdminHandler(deps.DB)
	authed.GET("/admins", adminHandler.List)
	authed.GET("/admins/:id", adminHandler.Get)
	authed.PUT("/admins/:id", adminHandler.Update)
	authed.POST("/admins/:id/enable", adminHandler.Enable)
	authed.POST("/admins/:id/disable", adminHandler.Disable)
	authed.DELETE("/admins/:id", adminHandler.Delete)

	inviteHandler := handlers.NewInvitationHandler(deps.Invites)
	authed.POST("/invitations", inviteHandler.Create)
	authed.GET("/invitations", inviteHandler.List)
	authed.DELETE("/invitations/:id", inviteHandler.Revoke)

	schoolHandler := handlers.NewSchoolHandler(deps.DB, deps.Cache)
	authed.POST("/schools", schoolHandler.Create)
	authed.GET("/schools", schoolHandler.List)
	authed.GET("/schools/:id", schoolHandler.Get)
	authed.PUT("/schools/:id", schoolHandler.Update)
	authed.DELETE("/schools/:id", schoolHandler.Delete)
	authed.GET("/schools/:id/theme", schoolHandler.GetTheme)
	authed.PUT("/schools/:id/theme", schoolHandler.UpdateTheme)

	pageHandler := handlers.NewPageHandler(deps.DB, deps.Cache)
	authed.GET("/schools/:id/pages", pageHandler.List)
	authed.POST("/schools/:id/pages", pageHandler.Create)
	authed.GET("/schools/:id/pages/:slug", pageHandler.Get)
	authed.PUT("/schools/:id/pages/:slug", pageHandler.Update)
	authed.DELETE("/schools/:id/pages/:slug", pageHandler.Delete)
	authed.POST("/schools/:id/pages/:slug/sections", pageHandler.AddSection)
	authed.PUT("/schools/:id/pages/:slug/sections/:sectionID", pageHandler.UpdateSection)
	authed.POST("/schools/:id/pages/:slug/sections/:sectionID/move", pageHandler.MoveSection)
	authed.DELETE("/schools/:id/pages/:slug/sections/:sectionID", pageHandler.RemoveSection)

	uploadHandler := handlers.NewUploadHandler(deps.Uploads)
	authed.POST("/uploads", uploadHandler.Upload)

	messageHandler := handlers.NewMessageHandler(deps.DB, deps.Messenger)
	authed.POST("/messages", messageHandler.Send)
	authed.GET("/messages", messageHandler.List)
	authed.GET("/messages/stats", messageHandler.Stats)

	templateHandler := handlers.NewTemplateHandler(deps.DB)
	authed.GET("/templates", templateHandler.List)
	authed.POST("/templates", templateHandler.Create)
	authed.PUT("/templates/:id", templateHandler.Update)
	authed.DELETE("/templates/:id", templateHandler.Delete)

	subscriptionHandler := handlers.NewSubscriptionHandler(deps.DB)
	authed.GET("/subscriptions", subscriptionHandler.List)
	authed.POST("/subscriptions", subscriptionHandler.Create)
	authed.PUT("/subscriptions/:id", subscriptionHandler.Update)
	authed.GET("/subscriptions/stats", subscriptionHandler.Stats)

	requestHandler := handlers.NewSchoolRequestHandler(deps.DB)
	authed.GET("/requests", requestHandler.List)
	authed.PUT("/requests/:id/status", requestHandler.UpdateStatus)

	taskHandler := handlers.NewTaskHandler(deps.DB)
	authed.GET("/tasks", taskHandler.List)
	authed.POST("/tasks", taskHandler.Create)
	authed.PUT("/tasks/:id", taskHandler.Update)
	authed.DELETE("/tasks/:id", taskHandler.Delete)

	settingsHandler := handlers.NewSettingsHandler(deps.DB)
	authed.GET("/settings", settingsHandler.Get)
	authed.PUT("/settings", settingsHandler.Update)
}

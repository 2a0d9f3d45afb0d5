// Package public registers the unauthenticated site-facing API: published
// school sites and pages, contact forms, invitation signup and school
// signup requests.
package public

import (
	"github.com/campusfront/campusfront/internal/cache"
	"github.com/campusfront/campusfront/internal/http/api/public/handlers"
	"github.com/campusfront/campusfront/internal/invitation"
	"github.com/campusfront/campusfront/internal/messaging"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps bundles the dependencies of the public API.
type Deps struct {
	DB        *gorm.DB
	Cache     *cache.Cache
	Messenger *messaging.Service
	Invites   *invitation.Service
}

// RegisterPublicRoutes registers the unauthenticated routes.
func RegisterPublicRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	siteHandler := handlers.NewSiteHandler(deps.DB, deps.Cache)
	site := r.Group("/v0/site")
	site.GET("/:slug", siteHandler.Get)
	site.GET("/:slug/pages/:page", siteHandler.GetPage)

	contactHandler := handlers.NewContactHandler(deps.DB, deps.Messenger)
	site.POST("/:slug/contact", contactHandler.Submit)

	signupHandler := handlers.NewSignupHandler(deps.DB, deps.Invites)
	pub := r.Group("/v0/public")
	pub.POST("/signup", signupHandler.ConsumeInvitation)
	pub.POST("/school-requests", signupHandler.CreateSchoolRequest)
}

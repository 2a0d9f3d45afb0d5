package handlers

import (
	"net/http"

	"github.com/campusfront/campusfront/internal/permission"
	"github.com/gin-gonic/gin"
)

// ListPermissions returns the permission catalog and the subset grantable
// to Level 2 admins.
func ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"all":       permission.All(),
		"grantable": permission.Grantable(),
	})
}

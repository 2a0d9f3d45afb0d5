// Package handlers implements the /v0/admin endpoint handlers.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/campusfront/campusfront/internal/permission"
	"github.com/gin-gonic/gin"
)

// readAdminIDFromContext returns the admin ID from request context.
func readAdminIDFromContext(c *gin.Context) (uint64, bool) {
	value, ok := c.Get("adminID")
	if !ok {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}

// readProfileFromContext returns the resolved authorization profile from
// request context.
func readProfileFromContext(c *gin.Context) (*permission.Profile, bool) {
	value, ok := c.Get("adminProfile")
	if !ok {
		return nil, false
	}
	profile, ok := value.(*permission.Profile)
	return profile, ok
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// requireSchoolAccess parses the :id school parameter and checks the caller
// may touch that school. It writes the error response on failure.
func requireSchoolAccess(c *gin.Context) (uint64, bool) {
	schoolID, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}
	profile, okProfile := readProfileFromContext(c)
	if !okProfile {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return 0, false
	}
	if !profile.HasSchoolAccess(schoolID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "school out of scope"})
		return 0, false
	}
	return schoolID, true
}

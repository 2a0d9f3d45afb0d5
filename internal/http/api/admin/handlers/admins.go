package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	dbutil "github.com/campusfront/campusfront/internal/db"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/permission"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler manages admin account endpoints. New Level 2 accounts are
// created through invitations, not here.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// adminResponse builds the JSON view of an admin row.
func adminResponse(row models.Admin) gin.H {
	return gin.H{
		"id":            row.ID,
		"email":         row.Email,
		"name":          row.Name,
		"level":         row.Level,
		"active":        row.Active,
		"permissions":   permission.Parse(row.Permissions),
		"school_ids":    permission.ParseSchoolIDs(row.SchoolIDs),
		"last_login_at": row.LastLoginAt,
		"created_at":    row.CreatedAt,
		"updated_at":    row.UpdatedAt,
	}
}

// List returns all admin accounts with optional filters.
func (h *AdminHandler) List(c *gin.Context) {
	var (
		emailQ = strings.TrimSpace(c.Query("email"))
		levelQ = strings.TrimSpace(c.Query("level"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Admin{})
	if emailQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+emailQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern)
	}
	if levelQ != "" {
		q = q.Where("level = ?", levelQ)
	}

	var rows []models.Admin
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list admins failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, adminResponse(row))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Get returns a single admin account by ID.
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, adminResponse(admin))
}

// updateAdminRequest defines the request body for admin updates.
type updateAdminRequest struct {
	Name        *string                  `json:"name"`
	Permissions *[]permission.Permission `json:"permissions"`
	SchoolIDs   *[]uint64                `json:"school_ids"`
}

// Update modifies a Level 2 admin's grants. Level 1 accounts hold every
// permission implicitly and cannot be edited here.
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Select("id", "level").First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Permissions != nil {
		if admin.Level != models.AdminLevelScoped {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level 1 admins hold all permissions"})
			return
		}
		perms := permission.Normalize(*body.Permissions)
		if errValidate := permission.Validate(perms, true); errValidate != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
			return
		}
		permsJSON, errMarshal := permission.Marshal(perms)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "marshal permissions failed"})
			return
		}
		updates["permissions"] = permsJSON
	}
	if body.SchoolIDs != nil {
		if admin.Level != models.AdminLevelScoped {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level 1 admins are not school scoped"})
			return
		}
		schoolsJSON, errMarshal := permission.MarshalSchoolIDs(*body.SchoolIDs)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "marshal school ids failed"})
			return
		}
		updates["school_ids"] = schoolsJSON
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Disable deactivates an admin account. Callers cannot disable themselves.
func (h *AdminHandler) Disable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if callerID, okCaller := readAdminIDFromContext(c); okCaller && callerID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable own account"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disable failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Enable reactivates an admin account.
func (h *AdminHandler) Enable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enable failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes an admin account. Callers cannot delete themselves.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if callerID, okCaller := readAdminIDFromContext(c); okCaller && callerID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/cache"
	dbutil "github.com/campusfront/campusfront/internal/db"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/theme"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// slugPattern constrains school and page slugs to URL-safe form.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// SchoolHandler manages school endpoints.
type SchoolHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewSchoolHandler constructs a SchoolHandler.
func NewSchoolHandler(db *gorm.DB, c *cache.Cache) *SchoolHandler {
	return &SchoolHandler{db: db, cache: c}
}

// schoolResponse builds the JSON view of a school row.
func schoolResponse(row models.School) gin.H {
	var contact map[string]any
	if len(row.ContactInfo) > 0 {
		_ = json.Unmarshal(row.ContactInfo, &contact)
	}
	return gin.H{
		"id":            row.ID,
		"slug":          row.Slug,
		"name":          row.Name,
		"active":        row.Active,
		"contact_info":  contact,
		"theme_version": row.ThemeVersion,
		"created_at":    row.CreatedAt,
		"updated_at":    row.UpdatedAt,
	}
}

// createSchoolRequest defines the request body for school creation.
type createSchoolRequest struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	ContactInfo map[string]any `json:"contact_info"`
}

// Create registers a new school site.
func (h *SchoolHandler) Create(c *gin.Context) {
	var body createSchoolRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	slug := strings.ToLower(strings.TrimSpace(body.Slug))
	name := strings.TrimSpace(body.Name)
	if !slugPattern.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
		return
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	contactJSON := datatypes.JSON("{}")
	if body.ContactInfo != nil {
		raw, errMarshal := json.Marshal(body.ContactInfo)
		if errMarshal != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact info"})
			return
		}
		contactJSON = datatypes.JSON(raw)
	}

	school := models.School{
		Slug:        slug,
		Name:        name,
		Active:      true,
		ContactInfo: contactJSON,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&school).Error; errCreate != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
		return
	}
	c.JSON(http.StatusCreated, schoolResponse(school))
}

// List returns schools visible to the caller. Level 2 admins only see their
// scoped schools.
func (h *SchoolHandler) List(c *gin.Context) {
	profile, okProfile := readProfileFromContext(c)
	if !okProfile {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.School{})
	if nameQ := strings.TrimSpace(c.Query("name")); nameQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+nameQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern)
	}
	if profile.Level == models.AdminLevelScoped {
		ids := profile.SchoolIDList()
		if len(ids) == 0 {
			c.JSON(http.StatusOK, gin.H{"schools": []gin.H{}})
			return
		}
		q = q.Where("id IN ?", ids)
	}

	var rows []models.School
	if errFind := q.Order("name ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list schools failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, schoolResponse(row))
	}
	c.JSON(http.StatusOK, gin.H{"schools": out})
}

// Get returns a single school.
func (h *SchoolHandler) Get(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	var school models.School
	if errFind := h.db.WithContext(c.Request.Context()).First(&school, schoolID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, schoolResponse(school))
}

// updateSchoolRequest defines the request body for school updates.
type updateSchoolRequest struct {
	Name        *string         `json:"name"`
	Active      *bool           `json:"active"`
	ContactInfo *map[string]any `json:"contact_info"`
}

// Update modifies school fields. The slug is immutable since public URLs
// embed it.
func (h *SchoolHandler) Update(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	var body updateSchoolRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		updates["name"] = name
	}
	if body.Active != nil {
		updates["active"] = *body.Active
	}
	if body.ContactInfo != nil {
		raw, errMarshal := json.Marshal(*body.ContactInfo)
		if errMarshal != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact info"})
			return
		}
		updates["contact_info"] = datatypes.JSON(raw)
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.School{}).Where("id = ?", schoolID).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.invalidateSite(c, schoolID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a school and its pages.
func (h *SchoolHandler) Delete(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}

	var school models.School
	if errFind := h.db.WithContext(c.Request.Context()).First(&school, schoolID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errPages := tx.Where("school_id = ?", schoolID).Delete(&models.Page{}).Error; errPages != nil {
			return errPages
		}
		return tx.Delete(&models.School{}, schoolID).Error
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	h.cache.Delete(c.Request.Context(), cache.SiteKey(school.Slug))
	c.Status(http.StatusNoContent)
}

// GetTheme returns the school theme with platform defaults filled in.
func (h *SchoolHandler) GetTheme(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	var school models.School
	if errFind := h.db.WithContext(c.Request.Context()).First(&school, schoolID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"theme":   theme.ApplyDefaults(theme.Decode(school.ThemeSettings)),
		"version": school.ThemeVersion,
	})
}

// UpdateTheme replaces the school theme document and bumps its version.
func (h *SchoolHandler) UpdateTheme(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	var body theme.Settings
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	raw, errEncode := theme.Encode(body)
	if errEncode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode theme failed"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.School{}).
		Where("id = ?", schoolID).
		Updates(map[string]any{
			"theme_settings": datatypes.JSON(raw),
			"theme_version":  gorm.Expr("theme_version + 1"),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update theme failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.invalidateSite(c, schoolID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// invalidateSite drops the cached public site document for a school.
func (h *SchoolHandler) invalidateSite(c *gin.Context, schoolID uint64) {
	if h.cache == nil {
		return
	}
	var school models.School
	if errFind := h.db.WithContext(c.Request.Context()).Select("slug").First(&school, schoolID).Error; errFind != nil {
		return
	}
	h.cache.Delete(c.Request.Context(), cache.SiteKey(school.Slug))
}

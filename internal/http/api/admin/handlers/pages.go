package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/cache"
	"github.com/campusfront/campusfront/internal/content"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PageHandler manages page documents and their section lists.
type PageHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewPageHandler constructs a PageHandler.
func NewPageHandler(db *gorm.DB, c *cache.Cache) *PageHandler {
	return &PageHandler{db: db, cache: c}
}

// pageResponse builds the JSON view of a page row.
func pageResponse(row models.Page) (gin.H, error) {
	sections, errDecode := content.UnmarshalSections(row.Sections)
	if errDecode != nil {
		return nil, errDecode
	}
	return gin.H{
		"id":               row.ID,
		"school_id":        row.SchoolID,
		"slug":             row.Slug,
		"title":            row.Title,
		"meta_description": row.MetaDescription,
		"published":        row.Published,
		"sections":         sections,
		"created_at":       row.CreatedAt,
		"updated_at":       row.UpdatedAt,
	}, nil
}

// loadPage fetches a page by school and slug, writing the error response on
// failure.
func (h *PageHandler) loadPage(c *gin.Context, schoolID uint64) (models.Page, bool) {
	slug := strings.TrimSpace(c.Param("slug"))
	var page models.Page
	errFind := h.db.WithContext(c.Request.Context()).
		Where("school_id = ? AND slug = ?", schoolID, slug).
		First(&page).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return models.Page{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return models.Page{}, false
	}
	return page, true
}

// saveSections persists a new section list for a page and invalidates the
// public cache.
func (h *PageHandler) saveSections(c *gin.Context, page models.Page, sections []content.Section) {
	if errValidate := content.ValidateSections(sections); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}
	raw, errMarshal := content.MarshalSections(sections)
	if errMarshal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode sections failed"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.Page{}).
		Where("id = ?", page.ID).
		Updates(map[string]any{"sections": datatypes.JSON(raw), "updated_at": time.Now().UTC()}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save sections failed"})
		return
	}

	h.invalidatePage(c, page)
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// List returns the pages of a school.
func (h *PageHandler) List(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	var rows []models.Page
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("school_id = ?", schoolID).
		Order("slug ASC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list pages failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":         row.ID,
			"slug":       row.Slug,
			"title":      row.Title,
			"published":  row.Published,
			"updated_at": row.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"pages": out})
}

// createPageRequest defines the request body for page creation.
type createPageRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
}

// Create adds a page with an empty section list.
func (h *PageHandler) Create(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	var body createPageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	slug := strings.ToLower(strings.TrimSpace(body.Slug))
	title := strings.TrimSpace(body.Title)
	if !slugPattern.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
		return
	}
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}

	page := models.Page{
		SchoolID:        schoolID,
		Slug:            slug,
		Title:           title,
		MetaDescription: strings.TrimSpace(body.MetaDescription),
		Sections:        datatypes.JSON("[]"),
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&page).Error; errCreate != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "page slug already in use"})
		return
	}

	out, errResponse := pageResponse(page)
	if errResponse != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode page failed"})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Get returns the full page document.
func (h *PageHandler) Get(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}
	out, errResponse := pageResponse(page)
	if errResponse != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode page failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// updatePageRequest defines the request body for page updates. A present
// sections field replaces the whole list.
type updatePageRequest struct {
	Title           *string            `json:"title"`
	MetaDescription *string            `json:"meta_description"`
	Published       *bool              `json:"published"`
	Sections        *[]content.Section `json:"sections"`
}

// Update modifies page fields and, when given, the whole section list.
func (h *PageHandler) Update(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}
	var body updatePageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = title
	}
	if body.MetaDescription != nil {
		updates["meta_description"] = strings.TrimSpace(*body.MetaDescription)
	}
	if body.Published != nil {
		updates["published"] = *body.Published
	}
	if body.Sections != nil {
		if errValidate := content.ValidateSections(*body.Sections); errValidate != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
			return
		}
		raw, errMarshal := content.MarshalSections(*body.Sections)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "encode sections failed"})
			return
		}
		updates["sections"] = datatypes.JSON(raw)
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.Page{}).
		Where("id = ?", page.ID).
		Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	h.invalidatePage(c, page)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a page.
func (h *PageHandler) Delete(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.Page{}, page.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.invalidatePage(c, page)
	c.Status(http.StatusNoContent)
}

// addSectionRequest defines the request body for adding a section.
type addSectionRequest struct {
	Type content.SectionType `json:"type"`
}

// AddSection appends a new section of the given type with its default
// config.
func (h *PageHandler) AddSection(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}
	var body addSectionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	section, errNew := content.NewSection(body.Type)
	if errNew != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNew.Error()})
		return
	}
	sections, errDecode := content.UnmarshalSections(page.Sections)
	if errDecode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode sections failed"})
		return
	}

	h.saveSections(c, page, append(sections, section))
}

// updateSectionRequest defines the request body for a section config patch.
type updateSectionRequest struct {
	Config map[string]any `json:"config"`
}

// UpdateSection shallow-merges a config patch into one section.
func (h *PageHandler) UpdateSection(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}
	var body updateSectionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Config) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing config"})
		return
	}

	sections, errDecode := content.UnmarshalSections(page.Sections)
	if errDecode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode sections failed"})
		return
	}
	sectionID := strings.TrimSpace(c.Param("sectionID"))
	if sectionIndex(sections, sectionID) < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	h.saveSections(c, page, content.UpdateConfig(sections, sectionID, body.Config))
}

// moveSectionRequest defines the request body for a section move.
type moveSectionRequest struct {
	Direction content.Direction `json:"direction"`
}

// MoveSection swaps a section with its neighbor in the given direction. A
// move that would leave the list is a no-op.
func (h *PageHandler) MoveSection(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}
	var body moveSectionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Direction != content.DirectionUp && body.Direction != content.DirectionDown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction"})
		return
	}

	sections, errDecode := content.UnmarshalSections(page.Sections)
	if errDecode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode sections failed"})
		return
	}
	idx := sectionIndex(sections, strings.TrimSpace(c.Param("sectionID")))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	h.saveSections(c, page, content.Reorder(sections, idx, body.Direction))
}

// RemoveSection deletes one section from the page.
func (h *PageHandler) RemoveSection(c *gin.Context) {
	schoolID, ok := requireSchoolAccess(c)
	if !ok {
		return
	}
	page, okPage := h.loadPage(c, schoolID)
	if !okPage {
		return
	}

	sections, errDecode := content.UnmarshalSections(page.Sections)
	if errDecode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode sections failed"})
		return
	}
	sectionID := strings.TrimSpace(c.Param("sectionID"))
	if sectionIndex(sections, sectionID) < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	h.saveSections(c, page, content.Remove(sections, sectionID))
}

// sectionIndex returns the position of a section ID, or -1.
func sectionIndex(sections []content.Section, sectionID string) int {
	for i, section := range sections {
		if section.ID == sectionID {
			return i
		}
	}
	return -1
}

// invalidatePage drops cached public copies of a page and its site.
func (h *PageHandler) invalidatePage(c *gin.Context, page models.Page) {
	if h.cache == nil {
		return
	}
	var school models.School
	if errFind := h.db.WithContext(c.Request.Context()).Select("slug").First(&school, page.SchoolID).Error; errFind != nil {
		return
	}
	h.cache.Delete(c.Request.Context(),
		cache.PageKey(school.Slug, page.Slug),
		cache.SiteKey(school.Slug),
	)
}

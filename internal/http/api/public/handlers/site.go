// Package handlers implements the public site endpoint handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/campusfront/campusfront/internal/cache"
	"github.com/campusfront/campusfront/internal/content"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/theme"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SiteHandler serves published school sites and pages.
type SiteHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewSiteHandler constructs a SiteHandler.
func NewSiteHandler(db *gorm.DB, c *cache.Cache) *SiteHandler {
	return &SiteHandler{db: db, cache: c}
}

// siteDocument is the cacheable public view of a school site.
type siteDocument struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Theme       theme.Settings `json:"theme"`
	ThemeVer    int            `json:"theme_version"`
	ContactInfo map[string]any `json:"contact_info,omitempty"`
	Pages       []pageLink     `json:"pages"`
}

// pageLink is one navigation entry of a site document.
type pageLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// pageDocument is the cacheable public view of a published page.
type pageDocument struct {
	SchoolSlug      string            `json:"school_slug"`
	Slug            string            `json:"page_slug"`
	Title           string            `json:"title"`
	MetaDescription string            `json:"meta_description,omitempty"`
	Sections        []content.Section `json:"sections"`
}

// loadActiveSchool fetches an active school by slug, writing the error
// response on failure.
func (h *SiteHandler) loadActiveSchool(c *gin.Context) (models.School, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	var school models.School
	errFind := h.db.WithContext(c.Request.Context()).
		Where("slug = ? AND active = ?", slug, true).
		First(&school).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return models.School{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return models.School{}, false
	}
	return school, true
}

// Get returns the public site document: school info, the defaulted theme
// and the published page list.
func (h *SiteHandler) Get(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var cached siteDocument
	if h.cache.GetJSON(c.Request.Context(), cache.SiteKey(slug), &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	school, ok := h.loadActiveSchool(c)
	if !ok {
		return
	}

	var pages []models.Page
	if errFind := h.db.WithContext(c.Request.Context()).
		Select("slug", "title").
		Where("school_id = ? AND published = ?", school.ID, true).
		Order("slug ASC").
		Find(&pages).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	doc := siteDocument{
		Slug:     school.Slug,
		Name:     school.Name,
		Theme:    theme.ApplyDefaults(theme.Decode(school.ThemeSettings)),
		ThemeVer: school.ThemeVersion,
		Pages:    make([]pageLink, 0, len(pages)),
	}
	if len(school.ContactInfo) > 0 {
		_ = json.Unmarshal(school.ContactInfo, &doc.ContactInfo)
	}
	for _, page := range pages {
		doc.Pages = append(doc.Pages, pageLink{Slug: page.Slug, Title: page.Title})
	}

	h.cache.SetJSON(c.Request.Context(), cache.SiteKey(school.Slug), doc)
	c.JSON(http.StatusOK, doc)
}

// GetPage returns a published page document.
func (h *SiteHandler) GetPage(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	pageSlug := strings.ToLower(strings.TrimSpace(c.Param("page")))

	var cached pageDocument
	if h.cache.GetJSON(c.Request.Context(), cache.PageKey(slug, pageSlug), &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	school, ok := h.loadActiveSchool(c)
	if !ok {
		return
	}

	var page models.Page
	errFind := h.db.WithContext(c.Request.Context()).
		Where("school_id = ? AND slug = ? AND published = ?", school.ID, pageSlug, true).
		First(&page).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	sections, errDecode := content.UnmarshalSections(page.Sections)
	if errDecode != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode page failed"})
		return
	}

	doc := pageDocument{
		SchoolSlug:      school.Slug,
		Slug:            page.Slug,
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Sections:        sections,
	}
	h.cache.SetJSON(c.Request.Context(), cache.PageKey(school.Slug, page.Slug), doc)
	c.JSON(http.StatusOK, doc)
}

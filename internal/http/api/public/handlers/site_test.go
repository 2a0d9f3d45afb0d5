package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusfront/campusfront/internal/content"
	"github.com/campusfront/campusfront/internal/db"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newSiteEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:site_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	engine := gin.New()
	handler := NewSiteHandler(conn, nil)
	engine.GET("/v0/site/:slug", handler.Get)
	engine.GET("/v0/site/:slug/pages/:page", handler.GetPage)
	return engine, conn
}

func seedSchool(t *testing.T, conn *gorm.DB, slug string, active bool, themeJSON string) models.School {
	t.Helper()
	school := models.School{
		Slug:   slug,
		Name:   "Test School",
		Active: active,
	}
	if themeJSON != "" {
		school.ThemeSettings = []byte(themeJSON)
	}
	if errCreate := conn.Create(&school).Error; errCreate != nil {
		t.Fatalf("create school: %v", errCreate)
	}
	return school
}

func seedPage(t *testing.T, conn *gorm.DB, schoolID uint64, slug string, published bool, sections []content.Section) models.Page {
	t.Helper()
	raw, errMarshal := content.MarshalSections(sections)
	if errMarshal != nil {
		t.Fatalf("marshal sections: %v", errMarshal)
	}
	page := models.Page{
		SchoolID:  schoolID,
		Slug:      slug,
		Title:     "Page " + slug,
		Published: published,
		Sections:  raw,
	}
	if errCreate := conn.Create(&page).Error; errCreate != nil {
		t.Fatalf("create page: %v", errCreate)
	}
	return page
}

func TestSiteDocumentFillsThemeDefaults(t *testing.T) {
	engine, conn := newSiteEngine(t)
	// Only the primary color is customized; everything else must come back
	// as a platform default.
	seedSchool(t, conn, "hillside", true, `{"colors":{"primary":"#ff0000"}}`)

	req := httptest.NewRequest(http.MethodGet, "/v0/site/hillside", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var doc struct {
		Name  string `json:"name"`
		Theme struct {
			Colors struct {
				Primary    string `json:"primary"`
				Background string `json:"background"`
			} `json:"colors"`
			Typography struct {
				BaseSizePx int `json:"base_size_px"`
			} `json:"typography"`
		} `json:"theme"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &doc); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if doc.Theme.Colors.Primary != "#ff0000" {
		t.Fatalf("custom primary lost: %q", doc.Theme.Colors.Primary)
	}
	if doc.Theme.Colors.Background != "#ffffff" {
		t.Fatalf("background default not applied: %q", doc.Theme.Colors.Background)
	}
	if doc.Theme.Typography.BaseSizePx != 16 {
		t.Fatalf("base size default not applied: %d", doc.Theme.Typography.BaseSizePx)
	}
}

func TestSiteDocumentListsOnlyPublishedPages(t *testing.T) {
	engine, conn := newSiteEngine(t)
	school := seedSchool(t, conn, "lakeview", true, "")
	seedPage(t, conn, school.ID, "about", true, nil)
	seedPage(t, conn, school.ID, "draft", false, nil)

	req := httptest.NewRequest(http.MethodGet, "/v0/site/lakeview", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"about"`) {
		t.Fatalf("published page missing: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"draft"`) {
		t.Fatalf("draft page leaked: %s", rec.Body.String())
	}
}

func TestInactiveSchoolNotServed(t *testing.T) {
	engine, conn := newSiteEngine(t)
	seedSchool(t, conn, "closed", false, "")

	req := httptest.NewRequest(http.MethodGet, "/v0/site/closed", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for inactive school, got %d", rec.Code)
	}
}

func TestPublishedPageDocument(t *testing.T) {
	engine, conn := newSiteEngine(t)
	school := seedSchool(t, conn, "ridge", true, "")

	hero, errNew := content.NewSection(content.TypeHero)
	if errNew != nil {
		t.Fatalf("new section: %v", errNew)
	}
	seedPage(t, conn, school.ID, "home", true, []content.Section{hero})
	seedPage(t, conn, school.ID, "hidden", false, nil)

	req := httptest.NewRequest(http.MethodGet, "/v0/site/ridge/pages/home", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var doc struct {
		Slug     string            `json:"page_slug"`
		Sections []content.Section `json:"sections"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &doc); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if doc.Slug != "home" {
		t.Fatalf("unexpected slug: %q", doc.Slug)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Type != content.TypeHero {
		t.Fatalf("sections not preserved: %+v", doc.Sections)
	}

	req = httptest.NewRequest(http.MethodGet, "/v0/site/ridge/pages/hidden", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unpublished page, got %d", rec.Code)
	}
}

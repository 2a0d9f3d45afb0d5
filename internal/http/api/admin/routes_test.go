package admin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusfront/campusfront/internal/config"
	"github.com/campusfront/campusfront/internal/db"
	"github.com/campusfront/campusfront/internal/invitation"
	"github.com/campusfront/campusfront/internal/messaging"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "routes-test-secret"

func newTestEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:routes_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	engine := gin.New()
	RegisterAdminRoutes(engine, Deps{
		DB:        conn,
		JWT:       config.JWTConfig{Secret: testJWTSecret},
		Messenger: messaging.NewService(conn, nil),
		Invites:   invitation.NewService(conn),
	})
	return engine, conn
}

func createAdmin(t *testing.T, conn *gorm.DB, level int, perms, schoolIDs string) models.Admin {
	t.Helper()
	admin := models.Admin{
		Email:       fmt.Sprintf("admin-%d-%d@example.org", level, time.Now().UnixNano()),
		Password:    "unused",
		Active:      true,
		Level:       level,
		Permissions: []byte(perms),
		SchoolIDs:   []byte(schoolIDs),
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}
	return admin
}

func tokenFor(t *testing.T, admin models.Admin) string {
	t.Helper()
	token, errToken := security.GenerateAdminToken(testJWTSecret, admin.ID, admin.Email, admin.Level, time.Hour)
	if errToken != nil {
		t.Fatalf("generate token: %v", errToken)
	}
	return token
}

func doRequest(engine *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireToken(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := doRequest(engine, http.MethodGet, "/v0/admin/schools", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(engine, http.MethodGet, "/v0/admin/schools", "not-a-jwt", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestLevelOneBypassesPermissionChecks(t *testing.T) {
	engine, conn := newTestEngine(t)
	admin := createAdmin(t, conn, models.AdminLevelFull, "[]", "[]")
	token := tokenFor(t, admin)

	for _, path := range []string{
		"/v0/admin/schools",
		"/v0/admin/admins",
		"/v0/admin/settings",
		"/v0/admin/subscriptions",
	} {
		rec := doRequest(engine, http.MethodGet, path, token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("level 1 GET %s: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}
	}
}

func TestLevelTwoRequiresGrantedPermission(t *testing.T) {
	engine, conn := newTestEngine(t)
	admin := createAdmin(t, conn, models.AdminLevelScoped, `["messaging"]`, "[1]")
	token := tokenFor(t, admin)

	rec := doRequest(engine, http.MethodGet, "/v0/admin/messages", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("granted permission: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(engine, http.MethodGet, "/v0/admin/schools", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing permission: expected 403, got %d", rec.Code)
	}
}

func TestRestrictedPermissionsDeniedForLevelTwo(t *testing.T) {
	engine, conn := newTestEngine(t)
	// The permission set erroneously carries restricted grants; the runtime
	// check must still deny them.
	admin := createAdmin(t, conn, models.AdminLevelScoped,
		`["system_settings","admin_management","billing_management","messaging"]`, "[1]")
	token := tokenFor(t, admin)

	for _, path := range []string{
		"/v0/admin/settings",
		"/v0/admin/admins",
		"/v0/admin/invitations",
	} {
		rec := doRequest(engine, http.MethodGet, path, token, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("restricted GET %s: expected 403, got %d", path, rec.Code)
		}
	}

	rec := doRequest(engine, http.MethodGet, "/v0/admin/messages", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("non-restricted permission should still work, got %d", rec.Code)
	}
}

func TestSchoolScopeEnforcedOnSchoolRoutes(t *testing.T) {
	engine, conn := newTestEngine(t)

	inScope := models.School{Slug: "north", Name: "North High", Active: true}
	outOfScope := models.School{Slug: "south", Name: "South High", Active: true}
	if errCreate := conn.Create(&inScope).Error; errCreate != nil {
		t.Fatalf("create school: %v", errCreate)
	}
	if errCreate := conn.Create(&outOfScope).Error; errCreate != nil {
		t.Fatalf("create school: %v", errCreate)
	}

	admin := createAdmin(t, conn, models.AdminLevelScoped, `["school_management"]`,
		fmt.Sprintf("[%d]", inScope.ID))
	token := tokenFor(t, admin)

	rec := doRequest(engine, http.MethodGet, fmt.Sprintf("/v0/admin/schools/%d", inScope.ID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("in-scope school: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(engine, http.MethodGet, fmt.Sprintf("/v0/admin/schools/%d", outOfScope.ID), token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("out-of-scope school: expected 403, got %d", rec.Code)
	}

	// The list only shows scoped schools.
	rec = doRequest(engine, http.MethodGet, "/v0/admin/schools", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list schools: expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "South High") {
		t.Fatalf("out-of-scope school leaked into list: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "North High") {
		t.Fatalf("in-scope school missing from list: %s", rec.Body.String())
	}
}

func TestInactiveAdminDenied(t *testing.T) {
	engine, conn := newTestEngine(t)
	admin := createAdmin(t, conn, models.AdminLevelFull, "[]", "[]")
	token := tokenFor(t, admin)

	if errUpdate := conn.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("active", false).Error; errUpdate != nil {
		t.Fatalf("disable admin: %v", errUpdate)
	}

	rec := doRequest(engine, http.MethodGet, "/v0/admin/schools", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("disabled admin: expected 401, got %d", rec.Code)
	}
}

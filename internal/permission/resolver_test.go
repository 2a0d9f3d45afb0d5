package permission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupResolverDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:resolver_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Admin{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func TestResolveLoadsScopedProfile(t *testing.T) {
	db := setupResolverDB(t)
	admin := models.Admin{
		Email:       "scoped@example.com",
		Password:    "x",
		Active:      true,
		Level:       models.AdminLevelScoped,
		Permissions: datatypes.JSON([]byte(`["messaging","content_management"]`)),
		SchoolIDs:   datatypes.JSON([]byte(`[7]`)),
	}
	if errCreate := db.Create(&admin).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}

	profile, errResolve := NewResolver(db).Resolve(context.Background(), admin.ID)
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if profile.Level != 2 {
		t.Fatalf("expected level 2, got %d", profile.Level)
	}
	if !profile.HasPermission(PermMessaging, 7) {
		t.Fatalf("expected messaging allowed for school 7")
	}
	if profile.HasPermission(PermMessaging, 8) {
		t.Fatalf("expected messaging denied for school 8")
	}
}

func TestResolveFailsClosed(t *testing.T) {
	db := setupResolverDB(t)
	resolver := NewResolver(db)

	if _, errResolve := resolver.Resolve(context.Background(), 12345); errResolve == nil {
		t.Fatalf("expected error for missing admin")
	}

	inactive := models.Admin{Email: "off@example.com", Password: "x", Active: false, Level: 1}
	if errCreate := db.Create(&inactive).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}
	if _, errResolve := resolver.Resolve(context.Background(), inactive.ID); errResolve == nil {
		t.Fatalf("expected error for inactive admin")
	}
}

func TestResolveProvisionsLegacyAdminOnce(t *testing.T) {
	db := setupResolverDB(t)
	legacy := models.Admin{Email: "legacy@example.com", Password: "x", Active: true, Level: models.AdminLevelUnknown}
	if errCreate := db.Create(&legacy).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}

	profile, errResolve := NewResolver(db).Resolve(context.Background(), legacy.ID)
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if profile.Level != models.AdminLevelFull {
		t.Fatalf("expected provisioned level 1, got %d", profile.Level)
	}

	var stored models.Admin
	if errFind := db.First(&stored, legacy.ID).Error; errFind != nil {
		t.Fatalf("reload admin: %v", errFind)
	}
	if stored.Level != models.AdminLevelFull {
		t.Fatalf("expected stored level 1 after provisioning, got %d", stored.Level)
	}
}

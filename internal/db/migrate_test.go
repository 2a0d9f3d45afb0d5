package db

import (
	"testing"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestMigrateCreatesSchema(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{
		"admins", "admin_invitations", "schools", "pages",
		"messages", "message_templates", "subscriptions",
		"school_requests", "project_tasks", "settings",
	} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}

	for _, column := range []string{"level", "permissions", "school_ids"} {
		if !conn.Migrator().HasColumn("admins", column) {
			t.Fatalf("admins missing column %s", column)
		}
	}
}

func TestMigrateSeedsTemplatesOnce(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	// Admin edits to seeded templates must survive re-migration.
	if errUpdate := conn.Model(&models.MessageTemplate{}).
		Where("key = ?", "renewal_reminder").
		Update("subject", "edited").Error; errUpdate != nil {
		t.Fatalf("edit template: %v", errUpdate)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("re-migrate: %v", errMigrate)
	}

	var tpl models.MessageTemplate
	if errFind := conn.Where("key = ?", "renewal_reminder").First(&tpl).Error; errFind != nil {
		t.Fatalf("load template: %v", errFind)
	}
	if tpl.Subject != "edited" {
		t.Fatalf("seed overwrote edited template: %q", tpl.Subject)
	}

	var count int64
	if errCount := conn.Model(&models.MessageTemplate{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count templates: %v", errCount)
	}
	if count != int64(len(builtinTemplates)) {
		t.Fatalf("expected %d templates, got %d", len(builtinTemplates), count)
	}
}

func TestDetectDialectFromDSN(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"postgres://user:pw@localhost/campusfront", DialectPostgres},
		{"host=localhost user=cf dbname=campusfront sslmode=disable", DialectPostgres},
		{"file:campusfront.db", DialectSQLite},
		{"sqlite://data/campusfront.db", DialectSQLite},
		{"campusfront.db", DialectSQLite},
	}
	for _, tc := range cases {
		got, errDetect := detectDialectFromDSN(tc.dsn)
		if errDetect != nil {
			t.Fatalf("detect %q: %v", tc.dsn, errDetect)
		}
		if got != tc.want {
			t.Fatalf("detect %q: got %s want %s", tc.dsn, got, tc.want)
		}
	}
}

package invitation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/permission"
	"github.com/campusfront/campusfront/internal/security"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupInviteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:invite_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.Admin{}, &models.AdminInvitation{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func createInvite(t *testing.T, svc *Service, email string) *Created {
	t.Helper()
	created, errCreate := svc.Create(context.Background(), CreateParams{
		Email:       email,
		Name:        "Invited Admin",
		Permissions: []permission.Permission{permission.PermMessaging, permission.PermContentManagement},
		SchoolIDs:   []uint64{1, 2},
		CreatedBy:   1,
	})
	if errCreate != nil {
		t.Fatalf("create invitation: %v", errCreate)
	}
	return created
}

func TestCreateReturnsSecretsOnceAndStoresHashes(t *testing.T) {
	db := setupInviteDB(t)
	svc := NewService(db)

	created := createInvite(t, svc, "new.admin@example.com")
	if created.Token == "" || created.TempPassword == "" {
		t.Fatalf("missing one-time secrets")
	}
	if !strings.Contains(created.SignupLink, created.Token) {
		t.Fatalf("signup link does not carry token: %s", created.SignupLink)
	}

	wantExpiry := time.Now().UTC().Add(7 * 24 * time.Hour)
	if diff := created.ExpiresAt.Sub(wantExpiry); diff > time.Minute || diff < -time.Minute {
		t.Fatalf("expected default 7 day validity, got %s", created.ExpiresAt)
	}

	var stored models.AdminInvitation
	if errFind := db.Where("token = ?", created.Token).First(&stored).Error; errFind != nil {
		t.Fatalf("load invitation: %v", errFind)
	}
	if stored.TempPassword == created.TempPassword {
		t.Fatalf("temp password stored in plaintext")
	}
	if !security.CheckPassword(stored.TempPassword, created.TempPassword) {
		t.Fatalf("stored temp password hash does not verify")
	}
	if stored.EmailHash != security.HashEmail("New.Admin@Example.COM") {
		t.Fatalf("email hash is not case-insensitive")
	}
}

func TestCreateRejectsRestrictedPermissions(t *testing.T) {
	svc := NewService(setupInviteDB(t))
	_, errCreate := svc.Create(context.Background(), CreateParams{
		Email:       "x@example.com",
		Permissions: []permission.Permission{permission.PermBillingManagement},
		CreatedBy:   1,
	})
	if errCreate == nil {
		t.Fatalf("expected error granting restricted permission")
	}
}

func TestConsumeCreatesScopedAdmin(t *testing.T) {
	db := setupInviteDB(t)
	svc := NewService(db)
	created := createInvite(t, svc, "invitee@example.com")

	// Case-insensitive email match succeeds.
	admin, errConsume := svc.Consume(context.Background(), created.Token, "INVITEE@example.com", "chosen-password-1")
	if errConsume != nil {
		t.Fatalf("consume: %v", errConsume)
	}
	if admin.Level != models.AdminLevelScoped {
		t.Fatalf("expected level 2 admin, got %d", admin.Level)
	}
	perms := permission.Parse(admin.Permissions)
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %v", perms)
	}
	schools := permission.ParseSchoolIDs(admin.SchoolIDs)
	if len(schools) != 2 || schools[0] != 1 || schools[1] != 2 {
		t.Fatalf("expected school scope [1 2], got %v", schools)
	}
	if !security.CheckPassword(admin.Password, "chosen-password-1") {
		t.Fatalf("chosen password not stored")
	}
}

func TestConsumeEmailMismatch(t *testing.T) {
	svc := NewService(setupInviteDB(t))
	created := createInvite(t, svc, "invitee@example.com")

	_, errConsume := svc.Consume(context.Background(), created.Token, "other@example.com", "pw-123456")
	if !errors.Is(errConsume, ErrEmailMismatch) {
		t.Fatalf("expected ErrEmailMismatch, got %v", errConsume)
	}
}

func TestConsumeTwiceFailsWithAlreadyUsed(t *testing.T) {
	svc := NewService(setupInviteDB(t))
	created := createInvite(t, svc, "invitee@example.com")

	if _, errConsume := svc.Consume(context.Background(), created.Token, "invitee@example.com", "pw-123456"); errConsume != nil {
		t.Fatalf("first consume: %v", errConsume)
	}
	_, errConsume := svc.Consume(context.Background(), created.Token, "invitee2@example.com", "pw-123456")
	if !errors.Is(errConsume, ErrAlreadyUsed) {
		t.Fatalf("expected ErrAlreadyUsed, got %v", errConsume)
	}
}

func TestConsumeExpiredInvitation(t *testing.T) {
	db := setupInviteDB(t)
	svc := NewService(db)
	created := createInvite(t, svc, "late@example.com")

	past := time.Now().UTC().Add(-time.Hour)
	if errUpdate := db.Model(&models.AdminInvitation{}).
		Where("token = ?", created.Token).
		Update("expires_at", past).Error; errUpdate != nil {
		t.Fatalf("expire invitation: %v", errUpdate)
	}

	_, errConsume := svc.Consume(context.Background(), created.Token, "late@example.com", "pw-123456")
	if !errors.Is(errConsume, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", errConsume)
	}
}

func TestConsumeUnknownToken(t *testing.T) {
	svc := NewService(setupInviteDB(t))
	_, errConsume := svc.Consume(context.Background(), "inv_nope", "x@example.com", "pw-123456")
	if !errors.Is(errConsume, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", errConsume)
	}
}

func TestListPendingExcludesUsedAndExpired(t *testing.T) {
	db := setupInviteDB(t)
	svc := NewService(db)

	pending := createInvite(t, svc, "pending@example.com")
	used := createInvite(t, svc, "used@example.com")
	expired := createInvite(t, svc, "expired@example.com")

	if _, errConsume := svc.Consume(context.Background(), used.Token, "used@example.com", "pw-123456"); errConsume != nil {
		t.Fatalf("consume: %v", errConsume)
	}
	if errUpdate := db.Model(&models.AdminInvitation{}).
		Where("token = ?", expired.Token).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error; errUpdate != nil {
		t.Fatalf("expire invitation: %v", errUpdate)
	}

	rows, errList := svc.ListPending(context.Background())
	if errList != nil {
		t.Fatalf("list pending: %v", errList)
	}
	if len(rows) != 1 || rows[0].Token != pending.Token {
		t.Fatalf("expected only the pending invitation, got %d rows", len(rows))
	}
}

func TestRevokePendingInvitation(t *testing.T) {
	db := setupInviteDB(t)
	svc := NewService(db)
	created := createInvite(t, svc, "revoke@example.com")

	var stored models.AdminInvitation
	if errFind := db.Where("token = ?", created.Token).First(&stored).Error; errFind != nil {
		t.Fatalf("load invitation: %v", errFind)
	}
	if errRevoke := svc.Revoke(context.Background(), stored.ID); errRevoke != nil {
		t.Fatalf("revoke: %v", errRevoke)
	}
	if errRevoke := svc.Revoke(context.Background(), stored.ID); errRevoke == nil {
		t.Fatalf("expected error revoking twice")
	}
}

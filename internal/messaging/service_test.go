package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/campusfront/campusfront/internal/mail"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordingSender captures sent emails and can be made to fail.
type recordingSender struct {
	sent []mail.Email
	fail bool
}

func (s *recordingSender) Send(_ context.Context, email mail.Email) error {
	if s.fail {
		return errors.New("smtp boom")
	}
	s.sent = append(s.sent, email)
	return nil
}

func setupMessagingDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:messaging_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(
		&models.Message{},
		&models.MessageTemplate{},
		&models.School{},
		&models.Subscription{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func TestSendRecordsAndDelivers(t *testing.T) {
	db := setupMessagingDB(t)
	sender := &recordingSender{}
	svc := NewService(db, sender)

	msg, errSend := svc.Send(context.Background(), SendParams{
		SchoolID:  1,
		Recipient: "parent@example.com",
		Subject:   "Open day",
		Body:      "Join us on Saturday.",
	})
	if errSend != nil {
		t.Fatalf("send: %v", errSend)
	}
	if msg.Status != models.MessageStatusSent || msg.SentAt == nil {
		t.Fatalf("expected sent status, got %s", msg.Status)
	}
	if msg.Kind != models.MessageKindManual {
		t.Fatalf("expected manual kind default, got %s", msg.Kind)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "parent@example.com" {
		t.Fatalf("sender not invoked correctly: %+v", sender.sent)
	}
}

func TestSendKeepsFailedRecord(t *testing.T) {
	db := setupMessagingDB(t)
	svc := NewService(db, &recordingSender{fail: true})

	msg, errSend := svc.Send(context.Background(), SendParams{
		Recipient: "parent@example.com",
		Subject:   "x",
		Body:      "y",
	})
	if errSend == nil {
		t.Fatalf("expected delivery error")
	}
	if msg == nil || msg.Status != models.MessageStatusFailed {
		t.Fatalf("expected failed record, got %+v", msg)
	}
	if !strings.Contains(msg.LastError, "smtp boom") {
		t.Fatalf("expected error detail, got %q", msg.LastError)
	}
}

func TestRenderAndSendFromTemplate(t *testing.T) {
	db := setupMessagingDB(t)
	sender := &recordingSender{}
	svc := NewService(db, sender)

	tpl := models.MessageTemplate{
		Key:     "welcome",
		Subject: "Welcome {{.Name}}",
		Body:    "Hello {{.Name}}, your site is ready.",
		Active:  true,
	}
	if errCreate := db.Create(&tpl).Error; errCreate != nil {
		t.Fatalf("create template: %v", errCreate)
	}

	msg, errSend := svc.SendFromTemplate(context.Background(), 2, "head@example.com", "welcome", models.MessageKindManual, map[string]any{"Name": "Greenfield"})
	if errSend != nil {
		t.Fatalf("send from template: %v", errSend)
	}
	if msg.Subject != "Welcome Greenfield" {
		t.Fatalf("subject not rendered: %q", msg.Subject)
	}
	if msg.TemplateKey != "welcome" {
		t.Fatalf("template key not recorded: %q", msg.TemplateKey)
	}

	if _, _, errRender := svc.Render(context.Background(), "missing", nil); !errors.Is(errRender, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", errRender)
	}
}

func TestGetStatsCountsByStatusAndKind(t *testing.T) {
	db := setupMessagingDB(t)
	svc := NewService(db, &recordingSender{})

	rows := []models.Message{
		{SchoolID: 1, Recipient: "a@x.com", Subject: "s", Body: "b", Kind: models.MessageKindManual, Status: models.MessageStatusSent},
		{SchoolID: 1, Recipient: "b@x.com", Subject: "s", Body: "b", Kind: models.MessageKindAutomated, Status: models.MessageStatusFailed},
		{SchoolID: 2, Recipient: "c@x.com", Subject: "s", Body: "b", Kind: models.MessageKindContact, Status: models.MessageStatusPending},
	}
	for i := range rows {
		if errCreate := db.Create(&rows[i]).Error; errCreate != nil {
			t.Fatalf("create message: %v", errCreate)
		}
	}

	stats, errStats := svc.GetStats(context.Background(), 0)
	if errStats != nil {
		t.Fatalf("stats: %v", errStats)
	}
	if stats.Total != 3 || stats.Sent != 1 || stats.Failed != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected status counts: %+v", stats)
	}
	if stats.Manual != 1 || stats.Automated != 1 || stats.Contact != 1 {
		t.Fatalf("unexpected kind counts: %+v", stats)
	}

	scoped, errStats := svc.GetStats(context.Background(), 1)
	if errStats != nil {
		t.Fatalf("scoped stats: %v", errStats)
	}
	if scoped.Total != 2 {
		t.Fatalf("expected 2 messages for school 1, got %d", scoped.Total)
	}
}

func TestAutomatorSendsOneReminderPerPeriod(t *testing.T) {
	db := setupMessagingDB(t)
	sender := &recordingSender{}
	svc := NewService(db, sender)

	school := models.School{
		Slug:        "greenfield",
		Name:        "Greenfield",
		Active:      true,
		ContactInfo: datatypes.JSON([]byte(`{"email":"office@greenfield.example"}`)),
	}
	if errCreate := db.Create(&school).Error; errCreate != nil {
		t.Fatalf("create school: %v", errCreate)
	}
	tpl := models.MessageTemplate{
		Key:     RenewalReminderTemplateKey,
		Subject: "Renewal for {{.SchoolName}}",
		Body:    "Plan {{.Plan}} expires on {{.ExpiresAt}}.",
		Active:  true,
	}
	if errCreate := db.Create(&tpl).Error; errCreate != nil {
		t.Fatalf("create template: %v", errCreate)
	}
	sub := models.Subscription{
		SchoolID:  school.ID,
		Plan:      "standard",
		Status:    models.SubscriptionStatusActive,
		StartedAt: time.Now().UTC().AddDate(0, -11, 0),
		ExpiresAt: time.Now().UTC().AddDate(0, 0, 5),
	}
	if errCreate := db.Create(&sub).Error; errCreate != nil {
		t.Fatalf("create subscription: %v", errCreate)
	}

	automator := NewAutomator(svc)
	automator.ProcessOnce(context.Background())
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(sender.sent))
	}
	if sender.sent[0].Subject != "Renewal for Greenfield" {
		t.Fatalf("unexpected subject: %q", sender.sent[0].Subject)
	}

	// Second pass within the same period sends nothing.
	automator.ProcessOnce(context.Background())
	if len(sender.sent) != 1 {
		t.Fatalf("expected no repeat reminder, got %d", len(sender.sent))
	}

	var stored models.Subscription
	if errFind := db.First(&stored, sub.ID).Error; errFind != nil {
		t.Fatalf("reload subscription: %v", errFind)
	}
	if stored.ReminderSentAt == nil {
		t.Fatalf("reminder_sent_at not set")
	}
}

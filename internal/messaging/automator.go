package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/settings"
	log "github.com/sirupsen/logrus"
)

const (
	defaultAutomatorInterval = time.Hour
	// RenewalReminderTemplateKey names the template for renewal reminders.
	RenewalReminderTemplateKey = "renewal_reminder"
)

// Automator periodically sends subscription renewal reminders. Each
// subscription gets at most one reminder per period.
type Automator struct {
	svc      *Service
	interval time.Duration
}

// NewAutomator constructs an Automator on top of a messaging Service.
func NewAutomator(svc *Service) *Automator {
	if svc == nil {
		return nil
	}
	return &Automator{svc: svc, interval: defaultAutomatorInterval}
}

// Start launches the automation loop in a background goroutine.
func (a *Automator) Start(ctx context.Context) {
	if a == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go a.run(ctx)
	log.Infof("messaging automator started (interval=%s)", a.interval)
}

func (a *Automator) run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce runs one automation pass. Failures are logged per
// subscription and never stop the pass.
func (a *Automator) ProcessOnce(ctx context.Context) {
	if !settings.AutomatedMessagingEnabled() {
		return
	}

	sent, errProcess := a.sendRenewalReminders(ctx)
	if errProcess != nil {
		log.Warnf("automated messaging pass failed: %v", errProcess)
		return
	}
	if sent > 0 {
		log.Infof("automated messaging sent %d renewal reminders", sent)
	}
}

// sendRenewalReminders finds subscriptions expiring within the reminder
// window that have not yet been reminded this period, and messages the
// school contact address.
func (a *Automator) sendRenewalReminders(ctx context.Context) (int, error) {
	leadDays := settings.RenewalReminderDays()
	now := time.Now().UTC()
	deadline := now.AddDate(0, 0, leadDays)

	var due []models.Subscription
	if errFind := a.svc.db.WithContext(ctx).
		Where("status IN ?", []string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}).
		Where("expires_at > ? AND expires_at <= ?", now, deadline).
		Where("reminder_sent_at IS NULL OR reminder_sent_at < started_at").
		Find(&due).Error; errFind != nil {
		return 0, errFind
	}

	sent := 0
	for _, sub := range due {
		recipient, schoolName := a.schoolContact(ctx, sub.SchoolID)
		if recipient == "" {
			log.Warnf("renewal reminder skipped: school %d has no contact email", sub.SchoolID)
			continue
		}

		data := map[string]any{
			"SchoolName": schoolName,
			"Plan":       sub.Plan,
			"ExpiresAt":  sub.ExpiresAt.Format("2006-01-02"),
			"DaysLeft":   int(time.Until(sub.ExpiresAt).Hours() / 24),
		}
		if _, errSend := a.svc.SendFromTemplate(ctx, sub.SchoolID, recipient, RenewalReminderTemplateKey, models.MessageKindAutomated, data); errSend != nil {
			log.Warnf("renewal reminder for school %d failed: %v", sub.SchoolID, errSend)
			continue
		}

		if errUpdate := a.svc.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("id = ?", sub.ID).
			Update("reminder_sent_at", now).Error; errUpdate != nil {
			log.Warnf("mark reminder sent for subscription %d failed: %v", sub.ID, errUpdate)
			continue
		}
		sent++
	}
	return sent, nil
}

// schoolContact returns the school's contact email and name. The email is
// read opportunistically from the contact_info JSON object.
func (a *Automator) schoolContact(ctx context.Context, schoolID uint64) (email, name string) {
	var school models.School
	if errFind := a.svc.db.WithContext(ctx).First(&school, schoolID).Error; errFind != nil {
		return "", ""
	}
	if len(school.ContactInfo) > 0 {
		var contact struct {
			Email string `json:"email"`
		}
		if errUnmarshal := json.Unmarshal(school.ContactInfo, &contact); errUnmarshal == nil {
			email = strings.TrimSpace(contact.Email)
		}
	}
	return email, school.Name
}

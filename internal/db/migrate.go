package db

import (
	"fmt"

	"github.com/campusfront/campusfront/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all application tables and
// seeds the built-in message templates.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.AdminInvitation{},
		&models.School{},
		&models.Page{},
		&models.Message{},
		&models.MessageTemplate{},
		&models.Subscription{},
		&models.SchoolRequest{},
		&models.ProjectTask{},
		&models.Setting{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return seedTemplates(conn)
}

// builtinTemplates are created once and never overwritten, so admin edits
// survive restarts.
var builtinTemplates = []models.MessageTemplate{
	{
		Key:     "renewal_reminder",
		Subject: "Your {{.Plan}} subscription expires on {{.ExpiresAt}}",
		Body: "Hello {{.SchoolName}},\n\n" +
			"your {{.Plan}} subscription expires on {{.ExpiresAt}} ({{.DaysLeft}} days from now).\n" +
			"Renew in time to keep your school site online.\n",
		Active: true,
	},
	{
		Key:     "contact_notification",
		Subject: "New contact form message for {{.SchoolName}}",
		Body: "{{.SenderName}} <{{.SenderEmail}}> wrote:\n\n{{.Body}}\n",
		Active: true,
	},
}

// seedTemplates inserts missing built-in templates.
func seedTemplates(conn *gorm.DB) error {
	for _, tpl := range builtinTemplates {
		var count int64
		if errCount := conn.Model(&models.MessageTemplate{}).
			Where("key = ?", tpl.Key).
			Count(&count).Error; errCount != nil {
			return errCount
		}
		if count > 0 {
			continue
		}
		if errCreate := conn.Create(&tpl).Error; errCreate != nil {
			return fmt.Errorf("db: seed template %s: %w", tpl.Key, errCreate)
		}
	}
	return nil
}

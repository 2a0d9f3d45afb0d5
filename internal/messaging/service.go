// Package messaging implements the message subsystem: manual sends,
// template rendering, automated dispatch and delivery stats.
package messaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/campusfront/campusfront/internal/mail"
	"github.com/campusfront/campusfront/internal/models"
	"gorm.io/gorm"
)

// Template lookup errors.
var (
	// ErrTemplateNotFound indicates no active template exists for a key.
	ErrTemplateNotFound = errors.New("message template not found")
)

// Service records and delivers messages.
type Service struct {
	db     *gorm.DB
	sender mail.Sender
}

// NewService constructs a messaging Service.
func NewService(db *gorm.DB, sender mail.Sender) *Service {
	if sender == nil {
		sender = mail.NewConsoleSender()
	}
	return &Service{db: db, sender: sender}
}

// SendParams holds inputs for a direct send.
type SendParams struct {
	SchoolID    uint64
	Recipient   string
	Subject     string
	Body        string
	Kind        string
	TemplateKey string
}

// Send records a message and attempts delivery. The record is kept either
// way: sent on success, failed with the error detail otherwise.
func (s *Service) Send(ctx context.Context, params SendParams) (*models.Message, error) {
	recipient := strings.TrimSpace(params.Recipient)
	if recipient == "" || !strings.Contains(recipient, "@") {
		return nil, fmt.Errorf("invalid recipient: %q", params.Recipient)
	}
	kind := params.Kind
	if kind == "" {
		kind = models.MessageKindManual
	}

	msg := models.Message{
		SchoolID:    params.SchoolID,
		Recipient:   recipient,
		Subject:     params.Subject,
		Body:        params.Body,
		Kind:        kind,
		Status:      models.MessageStatusPending,
		TemplateKey: params.TemplateKey,
	}
	if errCreate := s.db.WithContext(ctx).Create(&msg).Error; errCreate != nil {
		return nil, fmt.Errorf("record message: %w", errCreate)
	}

	errSend := s.sender.Send(ctx, mail.Email{
		To:      recipient,
		Subject: params.Subject,
		Body:    params.Body,
	})

	now := time.Now().UTC()
	updates := map[string]any{"status": models.MessageStatusSent, "sent_at": now}
	if errSend != nil {
		updates = map[string]any{"status": models.MessageStatusFailed, "last_error": errSend.Error()}
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", msg.ID).
		Updates(updates).Error; errUpdate != nil {
		return nil, fmt.Errorf("update message status: %w", errUpdate)
	}

	if errFind := s.db.WithContext(ctx).First(&msg, msg.ID).Error; errFind != nil {
		return nil, errFind
	}
	if errSend != nil {
		return &msg, fmt.Errorf("deliver message: %w", errSend)
	}
	return &msg, nil
}

// Record stores a message without attempting delivery. Used for inbound
// contact-form submissions.
func (s *Service) Record(ctx context.Context, params SendParams) (*models.Message, error) {
	recipient := strings.TrimSpace(params.Recipient)
	if recipient == "" {
		return nil, fmt.Errorf("missing recipient")
	}
	msg := models.Message{
		SchoolID:  params.SchoolID,
		Recipient: recipient,
		Subject:   params.Subject,
		Body:      params.Body,
		Kind:      params.Kind,
		Status:    models.MessageStatusPending,
	}
	if errCreate := s.db.WithContext(ctx).Create(&msg).Error; errCreate != nil {
		return nil, fmt.Errorf("record message: %w", errCreate)
	}
	return &msg, nil
}

// SendFromTemplate renders an active template with data and sends the
// result.
func (s *Service) SendFromTemplate(ctx context.Context, schoolID uint64, recipient, templateKey, kind string, data any) (*models.Message, error) {
	subject, body, errRender := s.Render(ctx, templateKey, data)
	if errRender != nil {
		return nil, errRender
	}
	return s.Send(ctx, SendParams{
		SchoolID:    schoolID,
		Recipient:   recipient,
		Subject:     subject,
		Body:        body,
		Kind:        kind,
		TemplateKey: templateKey,
	})
}

// Render loads an active template by key and executes its subject and body
// with the given data.
func (s *Service) Render(ctx context.Context, templateKey string, data any) (subject, body string, err error) {
	var tpl models.MessageTemplate
	if errFind := s.db.WithContext(ctx).
		Where("key = ? AND active = ?", templateKey, true).
		First(&tpl).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templateKey)
		}
		return "", "", errFind
	}

	subject, err = renderTemplate("subject", tpl.Subject, data)
	if err != nil {
		return "", "", err
	}
	body, err = renderTemplate("body", tpl.Body, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

// renderTemplate executes one text/template string.
func renderTemplate(name, text string, data any) (string, error) {
	tmpl, errParse := template.New(name).Parse(text)
	if errParse != nil {
		return "", fmt.Errorf("parse template %s: %w", name, errParse)
	}
	var buf bytes.Buffer
	if errExec := tmpl.Execute(&buf, data); errExec != nil {
		return "", fmt.Errorf("execute template %s: %w", name, errExec)
	}
	return buf.String(), nil
}

// Package invitation implements single-use Level-2 admin invitations: a
// Level 1 admin creates one, receives the token and temp password exactly
// once, and the invitee consumes it at signup.
package invitation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/permission"
	"github.com/campusfront/campusfront/internal/security"
	"github.com/campusfront/campusfront/internal/settings"
	"gorm.io/gorm"
)

// Invitation flow errors.
var (
	// ErrInvalidToken indicates no invitation exists for the token.
	ErrInvalidToken = errors.New("invalid invitation token")
	// ErrAlreadyUsed indicates the invitation was consumed before.
	ErrAlreadyUsed = errors.New("invitation already used")
	// ErrExpired indicates the invitation validity window has passed.
	ErrExpired = errors.New("invitation expired")
	// ErrEmailMismatch indicates the chosen email does not match the invite.
	ErrEmailMismatch = errors.New("email does not match invitation")
	// ErrEmailTaken indicates an admin with the chosen email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// tempPasswordLength is the length of generated one-time passwords.
const tempPasswordLength = 12

// Service creates and consumes admin invitations.
type Service struct {
	db *gorm.DB
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateParams holds inputs for invitation creation.
type CreateParams struct {
	Email        string
	Name         string
	Permissions  []permission.Permission
	SchoolIDs    []uint64
	Notes        string
	ValidityDays int // Zero falls back to the platform setting.
	CreatedBy    uint64
}

// Created holds the one-time secrets of a new invitation. The token and
// temp password are not recoverable after this value is discarded.
type Created struct {
	ID           uint64
	Token        string
	TempPassword string
	SignupLink   string
	ExpiresAt    time.Time
}

// Create validates and persists a new invitation. Restricted permissions are
// rejected since invited admins are always Level 2.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Created, error) {
	email := strings.TrimSpace(params.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %q", params.Email)
	}

	perms := permission.Normalize(params.Permissions)
	if errValidate := permission.Validate(perms, true); errValidate != nil {
		return nil, errValidate
	}
	permsJSON, errMarshal := permission.Marshal(perms)
	if errMarshal != nil {
		return nil, errMarshal
	}
	schoolsJSON, errMarshal := permission.MarshalSchoolIDs(params.SchoolIDs)
	if errMarshal != nil {
		return nil, errMarshal
	}

	token, errToken := security.GenerateInviteToken()
	if errToken != nil {
		return nil, errToken
	}
	tempPassword, errPassword := security.GenerateTempPassword(tempPasswordLength)
	if errPassword != nil {
		return nil, errPassword
	}
	tempHash, errHash := security.HashPassword(tempPassword)
	if errHash != nil {
		return nil, errHash
	}

	validityDays := params.ValidityDays
	if validityDays <= 0 {
		validityDays = settings.InviteValidityDays()
	}
	expiresAt := time.Now().UTC().Add(time.Duration(validityDays) * 24 * time.Hour)

	invite := models.AdminInvitation{
		Token:        token,
		Email:        email,
		EmailHash:    security.HashEmail(email),
		Name:         strings.TrimSpace(params.Name),
		TempPassword: tempHash,
		Permissions:  permsJSON,
		SchoolIDs:    schoolsJSON,
		Notes:        strings.TrimSpace(params.Notes),
		CreatedBy:    params.CreatedBy,
		ExpiresAt:    expiresAt,
	}
	if errCreate := s.db.WithContext(ctx).Create(&invite).Error; errCreate != nil {
		return nil, fmt.Errorf("create invitation: %w", errCreate)
	}

	return &Created{
		ID:           invite.ID,
		Token:        token,
		TempPassword: tempPassword,
		SignupLink:   signupLink(token),
		ExpiresAt:    expiresAt,
	}, nil
}

// Consume redeems an invitation exactly once: it verifies the token, the
// expiry and a case-insensitive email match, then creates the Level 2 admin
// and marks the invitation used in one transaction. The used=false guard on
// the final update keeps the token single-use under concurrent redemption.
func (s *Service) Consume(ctx context.Context, token, chosenEmail, chosenPassword string) (*models.Admin, error) {
	token = strings.TrimSpace(token)
	chosenEmail = strings.TrimSpace(chosenEmail)
	chosenPassword = strings.TrimSpace(chosenPassword)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if chosenEmail == "" || chosenPassword == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	var admin *models.Admin
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite models.AdminInvitation
		if errFind := tx.Where("token = ?", token).First(&invite).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return errFind
		}
		if invite.Used {
			return ErrAlreadyUsed
		}
		if time.Now().UTC().After(invite.ExpiresAt) {
			return ErrExpired
		}
		if !strings.EqualFold(chosenEmail, invite.Email) {
			return ErrEmailMismatch
		}

		var existing int64
		if errCount := tx.Model(&models.Admin{}).
			Where("LOWER(email) = LOWER(?)", chosenEmail).
			Count(&existing).Error; errCount != nil {
			return errCount
		}
		if existing > 0 {
			return ErrEmailTaken
		}

		hash, errHash := security.HashPassword(chosenPassword)
		if errHash != nil {
			return errHash
		}

		created := models.Admin{
			Email:       chosenEmail,
			Name:        invite.Name,
			Password:    hash,
			Active:      true,
			Level:       models.AdminLevelScoped,
			Permissions: invite.Permissions,
			SchoolIDs:   invite.SchoolIDs,
		}
		if errCreate := tx.Create(&created).Error; errCreate != nil {
			return fmt.Errorf("create admin: %w", errCreate)
		}

		now := time.Now().UTC()
		res := tx.Model(&models.AdminInvitation{}).
			Where("id = ? AND used = ?", invite.ID, false).
			Updates(map[string]any{"used": true, "used_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyUsed
		}

		admin = &created
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return admin, nil
}

// ListPending returns unconsumed, unexpired invitations, newest first.
func (s *Service) ListPending(ctx context.Context) ([]models.AdminInvitation, error) {
	var rows []models.AdminInvitation
	if errFind := s.db.WithContext(ctx).
		Where("used = ? AND expires_at > ?", false, time.Now().UTC()).
		Order("created_at DESC").
		Find(&rows).Error; errFind != nil {
		return nil, errFind
	}
	return rows, nil
}

// Revoke deletes a pending invitation. Consumed invitations stay on record.
func (s *Service) Revoke(ctx context.Context, id uint64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND used = ?", id, false).
		Delete(&models.AdminInvitation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

// signupLink builds the public signup URL for a token.
func signupLink(token string) string {
	base := strings.TrimRight(settings.PublicBaseURL(), "/")
	return base + "/signup?invite=" + url.QueryEscape(token)
}

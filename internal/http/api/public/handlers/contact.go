package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/campusfront/campusfront/internal/messaging"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ContactHandler accepts contact-form submissions from public school sites.
type ContactHandler struct {
	db  *gorm.DB
	svc *messaging.Service
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(db *gorm.DB, svc *messaging.Service) *ContactHandler {
	return &ContactHandler{db: db, svc: svc}
}

// contactRequest defines the request body of a contact-form submission.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit records a contact message for the school and, when the school has
// a contact address, forwards a notification there. The record always
// succeeds even if the notification cannot be delivered.
func (h *ContactHandler) Submit(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	var school models.School
	errFind := h.db.WithContext(c.Request.Context()).
		Where("slug = ? AND active = ?", slug, true).
		First(&school).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var body contactRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.Email)
	message := strings.TrimSpace(body.Message)
	if name == "" || message == "" || email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}

	subject := strings.TrimSpace(body.Subject)
	if subject == "" {
		subject = "Contact form message"
	}

	record, errRecord := h.svc.Record(c.Request.Context(), messaging.SendParams{
		SchoolID:  school.ID,
		Recipient: email,
		Subject:   subject,
		Body:      message,
		Kind:      models.MessageKindContact,
	})
	if errRecord != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record message failed"})
		return
	}

	if contactEmail := schoolContactEmail(school); contactEmail != "" {
		data := map[string]any{
			"SchoolName":  school.Name,
			"SenderName":  name,
			"SenderEmail": email,
			"Body":        message,
		}
		if _, errNotify := h.svc.SendFromTemplate(c.Request.Context(), school.ID, contactEmail, "contact_notification", models.MessageKindAutomated, data); errNotify != nil {
			log.Warnf("contact notification for school %d failed: %v", school.ID, errNotify)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": record.ID, "ok": true})
}

// schoolContactEmail reads the contact email from the school's contact_info
// JSON object.
func schoolContactEmail(school models.School) string {
	if len(school.ContactInfo) == 0 {
		return ""
	}
	var contact struct {
		Email string `json:"email"`
	}
	if errUnmarshal := json.Unmarshal(school.ContactInfo, &contact); errUnmarshal != nil {
		return ""
	}
	return strings.TrimSpace(contact.Email)
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/campusfront/campusfront/internal/messaging"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MessageHandler manages message endpoints.
type MessageHandler struct {
	db  *gorm.DB
	svc *messaging.Service
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(db *gorm.DB, svc *messaging.Service) *MessageHandler {
	return &MessageHandler{db: db, svc: svc}
}

// sendMessageRequest defines the request body for a manual send. When a
// template key is given the subject and body fields are ignored and the
// template is rendered with data instead.
type sendMessageRequest struct {
	SchoolID    uint64         `json:"school_id"`
	Recipient   string         `json:"recipient"`
	Subject     string         `json:"subject"`
	Body        string         `json:"body"`
	TemplateKey string         `json:"template_key"`
	Data        map[string]any `json:"data"`
}

// Send delivers a manual message, optionally rendered from a template.
func (h *MessageHandler) Send(c *gin.Context) {
	var body sendMessageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	profile, okProfile := readProfileFromContext(c)
	if !okProfile {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}
	if body.SchoolID != 0 && !profile.HasSchoolAccess(body.SchoolID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "school out of scope"})
		return
	}

	var (
		msg     *models.Message
		errSend error
	)
	if key := strings.TrimSpace(body.TemplateKey); key != "" {
		msg, errSend = h.svc.SendFromTemplate(c.Request.Context(), body.SchoolID, body.Recipient, key, models.MessageKindManual, body.Data)
	} else {
		msg, errSend = h.svc.Send(c.Request.Context(), messaging.SendParams{
			SchoolID:  body.SchoolID,
			Recipient: body.Recipient,
			Subject:   body.Subject,
			Body:      body.Body,
			Kind:      models.MessageKindManual,
		})
	}
	if errSend != nil {
		// A failed delivery still produced a message record.
		if msg != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "delivery failed", "message_id": msg.ID})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errSend.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      msg.ID,
		"status":  msg.Status,
		"sent_at": msg.SentAt,
	})
}

// List returns message records, newest first, scoped to the caller's
// schools for Level 2 admins.
func (h *MessageHandler) List(c *gin.Context) {
	profile, okProfile := readProfileFromContext(c)
	if !okProfile {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Message{})
	if profile.Level == models.AdminLevelScoped {
		ids := profile.SchoolIDList()
		if len(ids) == 0 {
			c.JSON(http.StatusOK, gin.H{"messages": []gin.H{}})
			return
		}
		q = q.Where("school_id IN ?", ids)
	}
	if schoolQ := strings.TrimSpace(c.Query("school_id")); schoolQ != "" {
		if id, errParse := strconv.ParseUint(schoolQ, 10, 64); errParse == nil {
			q = q.Where("school_id = ?", id)
		}
	}
	if statusQ := strings.TrimSpace(c.Query("status")); statusQ != "" {
		q = q.Where("status = ?", statusQ)
	}
	if kindQ := strings.TrimSpace(c.Query("kind")); kindQ != "" {
		q = q.Where("kind = ?", kindQ)
	}

	limit := 100
	if limitQ := strings.TrimSpace(c.Query("limit")); limitQ != "" {
		if parsed, errParse := strconv.Atoi(limitQ); errParse == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var rows []models.Message
	if errFind := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list messages failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":           row.ID,
			"school_id":    row.SchoolID,
			"recipient":    row.Recipient,
			"subject":      row.Subject,
			"kind":         row.Kind,
			"status":       row.Status,
			"template_key": row.TemplateKey,
			"last_error":   row.LastError,
			"sent_at":      row.SentAt,
			"created_at":   row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

// Stats returns message delivery statistics, optionally for one school.
func (h *MessageHandler) Stats(c *gin.Context) {
	var schoolID uint64
	if schoolQ := strings.TrimSpace(c.Query("school_id")); schoolQ != "" {
		parsed, errParse := strconv.ParseUint(schoolQ, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid school_id"})
			return
		}
		schoolID = parsed
	}

	profile, okProfile := readProfileFromContext(c)
	if !okProfile {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}
	if schoolID != 0 && !profile.HasSchoolAccess(schoolID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "school out of scope"})
		return
	}
	if schoolID == 0 && profile.Level == models.AdminLevelScoped {
		c.JSON(http.StatusForbidden, gin.H{"error": "school_id is required"})
		return
	}

	stats, errStats := h.svc.GetStats(c.Request.Context(), schoolID)
	if errStats != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load stats failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

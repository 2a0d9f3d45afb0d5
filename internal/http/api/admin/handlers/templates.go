package handlers

import (
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TemplateHandler manages message template endpoints.
type TemplateHandler struct {
	db *gorm.DB
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{db: db}
}

// validateTemplateText parses subject and body so broken placeholders are
// rejected at save time, not at send time.
func validateTemplateText(subject, body string) error {
	if _, errParse := template.New("subject").Parse(subject); errParse != nil {
		return errParse
	}
	_, errParse := template.New("body").Parse(body)
	return errParse
}

// List returns all message templates.
func (h *TemplateHandler) List(c *gin.Context) {
	var rows []models.MessageTemplate
	if errFind := h.db.WithContext(c.Request.Context()).Order("key ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list templates failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":         row.ID,
			"key":        row.Key,
			"subject":    row.Subject,
			"body":       row.Body,
			"active":     row.Active,
			"updated_at": row.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

// createTemplateRequest defines the request body for template creation.
type createTemplateRequest struct {
	Key     string `json:"key"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Create adds a message template.
func (h *TemplateHandler) Create(c *gin.Context) {
	var body createTemplateRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	key := strings.TrimSpace(body.Key)
	if key == "" || strings.TrimSpace(body.Subject) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key and subject are required"})
		return
	}
	if errValidate := validateTemplateText(body.Subject, body.Body); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template syntax"})
		return
	}

	tpl := models.MessageTemplate{
		Key:     key,
		Subject: body.Subject,
		Body:    body.Body,
		Active:  true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&tpl).Error; errCreate != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "template key already in use"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": tpl.ID, "key": tpl.Key})
}

// updateTemplateRequest defines the request body for template updates.
type updateTemplateRequest struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	Active  *bool   `json:"active"`
}

// Update modifies a template's subject, body or active flag.
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body updateTemplateRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Subject != nil {
		if errValidate := validateTemplateText(*body.Subject, ""); errValidate != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template syntax"})
			return
		}
		updates["subject"] = *body.Subject
	}
	if body.Body != nil {
		if errValidate := validateTemplateText("", *body.Body); errValidate != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template syntax"})
			return
		}
		updates["body"] = *body.Body
	}
	if body.Active != nil {
		updates["active"] = *body.Active
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.MessageTemplate{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a template.
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.MessageTemplate{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

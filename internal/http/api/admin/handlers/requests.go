package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SchoolRequestHandler manages public signup request endpoints.
type SchoolRequestHandler struct {
	db *gorm.DB
}

// NewSchoolRequestHandler constructs a SchoolRequestHandler.
func NewSchoolRequestHandler(db *gorm.DB) *SchoolRequestHandler {
	return &SchoolRequestHandler{db: db}
}

// List returns signup requests, newest first.
func (h *SchoolRequestHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.SchoolRequest{})
	if statusQ := strings.TrimSpace(c.Query("status")); statusQ != "" {
		q = q.Where("status = ?", statusQ)
	}

	var rows []models.SchoolRequest
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list requests failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":           row.ID,
			"school_name":  row.SchoolName,
			"contact_name": row.ContactName,
			"email":        row.Email,
			"phone":        row.Phone,
			"notes":        row.Notes,
			"status":       row.Status,
			"created_at":   row.CreatedAt,
			"updated_at":   row.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

// updateRequestStatusRequest defines the request body for status changes.
type updateRequestStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus approves or rejects a signup request.
func (h *SchoolRequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body updateRequestStatusRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := strings.TrimSpace(body.Status)
	if status != models.SchoolRequestStatusApproved && status != models.SchoolRequestStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.SchoolRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
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

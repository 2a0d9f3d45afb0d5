package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// subscriptionStatuses is the closed set of subscription states.
var subscriptionStatuses = map[string]struct{}{
	models.SubscriptionStatusTrial:     {},
	models.SubscriptionStatusActive:    {},
	models.SubscriptionStatusExpired:   {},
	models.SubscriptionStatusCancelled: {},
}

// SubscriptionHandler manages subscription endpoints.
type SubscriptionHandler struct {
	db *gorm.DB
}

// NewSubscriptionHandler constructs a SubscriptionHandler.
func NewSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	return &SubscriptionHandler{db: db}
}

// subscriptionResponse builds the JSON view of a subscription row.
func subscriptionResponse(row models.Subscription) gin.H {
	return gin.H{
		"id":               row.ID,
		"school_id":        row.SchoolID,
		"plan":             row.Plan,
		"status":           row.Status,
		"started_at":       row.StartedAt,
		"expires_at":       row.ExpiresAt,
		"reminder_sent_at": row.ReminderSentAt,
		"created_at":       row.CreatedAt,
		"updated_at":       row.UpdatedAt,
	}
}

// List returns subscriptions, optionally filtered by school or status.
func (h *SubscriptionHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Subscription{})
	if schoolQ := strings.TrimSpace(c.Query("school_id")); schoolQ != "" {
		if id, errParse := strconv.ParseUint(schoolQ, 10, 64); errParse == nil {
			q = q.Where("school_id = ?", id)
		}
	}
	if statusQ := strings.TrimSpace(c.Query("status")); statusQ != "" {
		q = q.Where("status = ?", statusQ)
	}

	var rows []models.Subscription
	if errFind := q.Order("expires_at ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list subscriptions failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, subscriptionResponse(row))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

// createSubscriptionRequest defines the request body for subscription
// creation.
type createSubscriptionRequest struct {
	SchoolID  uint64    `json:"school_id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create records a subscription period for a school.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var body createSubscriptionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	plan := strings.TrimSpace(body.Plan)
	if body.SchoolID == 0 || plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school_id and plan are required"})
		return
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = models.SubscriptionStatusTrial
	}
	if _, ok := subscriptionStatuses[status]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if !body.ExpiresAt.After(body.StartedAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be after started_at"})
		return
	}

	var schoolCount int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.School{}).
		Where("id = ?", body.SchoolID).
		Count(&schoolCount).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if schoolCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown school"})
		return
	}

	sub := models.Subscription{
		SchoolID:  body.SchoolID,
		Plan:      plan,
		Status:    status,
		StartedAt: body.StartedAt.UTC(),
		ExpiresAt: body.ExpiresAt.UTC(),
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&sub).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create subscription failed"})
		return
	}
	c.JSON(http.StatusCreated, subscriptionResponse(sub))
}

// updateSubscriptionRequest defines the request body for subscription
// updates. Renewals move expires_at forward and reset started_at, which
// re-arms the renewal reminder for the new period.
type updateSubscriptionRequest struct {
	Plan      *string    `json:"plan"`
	Status    *string    `json:"status"`
	StartedAt *time.Time `json:"started_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Update modifies a subscription.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body updateSubscriptionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Plan != nil {
		plan := strings.TrimSpace(*body.Plan)
		if plan == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "plan cannot be empty"})
			return
		}
		updates["plan"] = plan
	}
	if body.Status != nil {
		if _, okStatus := subscriptionStatuses[*body.Status]; !okStatus {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		updates["status"] = *body.Status
	}
	if body.StartedAt != nil {
		updates["started_at"] = body.StartedAt.UTC()
	}
	if body.ExpiresAt != nil {
		updates["expires_at"] = body.ExpiresAt.UTC()
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Subscription{}).Where("id = ?", id).Updates(updates)
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

// Stats returns subscription counts by status plus the number expiring
// within the renewal reminder window.
func (h *SubscriptionHandler) Stats(c *gin.Context) {
	base := func() *gorm.DB {
		return h.db.WithContext(c.Request.Context()).Model(&models.Subscription{})
	}

	var total int64
	if errCount := base().Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load stats failed"})
		return
	}

	byStatus := make(map[string]int64, len(subscriptionStatuses))
	for status := range subscriptionStatuses {
		var count int64
		if errCount := base().Where("status = ?", status).Count(&count).Error; errCount != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load stats failed"})
			return
		}
		byStatus[status] = count
	}

	now := time.Now().UTC()
	deadline := now.AddDate(0, 0, settings.RenewalReminderDays())
	var expiringSoon int64
	if errCount := base().
		Where("status IN ?", []string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}).
		Where("expires_at > ? AND expires_at <= ?", now, deadline).
		Count(&expiringSoon).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load stats failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":         total,
		"by_status":     byStatus,
		"expiring_soon": expiringSoon,
	})
}

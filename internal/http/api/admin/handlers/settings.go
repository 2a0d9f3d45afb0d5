package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/campusfront/campusfront/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// knownSettingKeys is the closed set of editable platform settings.
var knownSettingKeys = map[string]struct{}{
	settings.SiteNameKey:           {},
	settings.PublicBaseURLKey:      {},
	settings.InviteValidityDaysKey: {},
	settings.AutomatedMessagingKey: {},
	settings.RenewalReminderDaysKey: {},
}

// SettingsHandler manages platform settings.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// Get returns the effective platform settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings": gin.H{
			settings.SiteNameKey:            settings.SiteName(),
			settings.PublicBaseURLKey:       settings.PublicBaseURL(),
			settings.InviteValidityDaysKey:  settings.InviteValidityDays(),
			settings.AutomatedMessagingKey:  settings.AutomatedMessagingEnabled(),
			settings.RenewalReminderDaysKey: settings.RenewalReminderDays(),
		},
		"updated_at": settings.UpdatedAt(),
	})
}

// Update upserts setting values and refreshes the in-memory snapshot.
// Concurrent writers are last-writer-wins per key.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body map[string]json.RawMessage
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no settings given"})
		return
	}
	for key := range body {
		if _, ok := knownSettingKeys[key]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting: " + key})
			return
		}
	}

	adminID, _ := readAdminIDFromContext(c)
	rows := make([]models.Setting, 0, len(body))
	for key, value := range body {
		rows = append(rows, models.Setting{Key: key, Value: value, UpdatedBy: adminID})
	}

	if errUpsert := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(&rows).Error; errUpsert != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save settings failed"})
		return
	}

	if errRefresh := settings.Refresh(c.Request.Context(), h.db); errRefresh != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh settings failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

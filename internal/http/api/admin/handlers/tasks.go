package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// taskStatuses is the closed set of task states.
var taskStatuses = map[string]struct{}{
	models.ProjectTaskStatusOpen:       {},
	models.ProjectTaskStatusInProgress: {},
	models.ProjectTaskStatusDone:       {},
}

// TaskHandler manages the lightweight task tracker.
type TaskHandler struct {
	db *gorm.DB
}

// NewTaskHandler constructs a TaskHandler.
func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db}
}

// taskResponse builds the JSON view of a task row.
func taskResponse(row models.ProjectTask) gin.H {
	return gin.H{
		"id":          row.ID,
		"school_id":   row.SchoolID,
		"title":       row.Title,
		"description": row.Description,
		"status":      row.Status,
		"priority":    row.Priority,
		"assignee_id": row.AssigneeID,
		"due_at":      row.DueAt,
		"created_at":  row.CreatedAt,
		"updated_at":  row.UpdatedAt,
	}
}

// List returns tasks, optionally filtered by school, status or assignee.
func (h *TaskHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.ProjectTask{})
	if schoolQ := strings.TrimSpace(c.Query("school_id")); schoolQ != "" {
		if id, errParse := strconv.ParseUint(schoolQ, 10, 64); errParse == nil {
			q = q.Where("school_id = ?", id)
		}
	}
	if statusQ := strings.TrimSpace(c.Query("status")); statusQ != "" {
		q = q.Where("status = ?", statusQ)
	}
	if assigneeQ := strings.TrimSpace(c.Query("assignee_id")); assigneeQ != "" {
		if id, errParse := strconv.ParseUint(assigneeQ, 10, 64); errParse == nil {
			q = q.Where("assignee_id = ?", id)
		}
	}

	var rows []models.ProjectTask
	if errFind := q.Order("priority DESC, created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list tasks failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskResponse(row))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out})
}

// createTaskRequest defines the request body for task creation.
type createTaskRequest struct {
	SchoolID    uint64     `json:"school_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	AssigneeID  uint64     `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// Create adds a task.
func (h *TaskHandler) Create(c *gin.Context) {
	var body createTaskRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}

	task := models.ProjectTask{
		SchoolID:    body.SchoolID,
		Title:       title,
		Description: strings.TrimSpace(body.Description),
		Status:      models.ProjectTaskStatusOpen,
		Priority:    body.Priority,
		AssigneeID:  body.AssigneeID,
		DueAt:       body.DueAt,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&task).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create task failed"})
		return
	}
	c.JSON(http.StatusCreated, taskResponse(task))
}

// updateTaskRequest defines the request body for task updates.
type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *int       `json:"priority"`
	AssigneeID  *uint64    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// Update modifies a task.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body updateTaskRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = title
	}
	if body.Description != nil {
		updates["description"] = strings.TrimSpace(*body.Description)
	}
	if body.Status != nil {
		if _, okStatus := taskStatuses[*body.Status]; !okStatus {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		updates["status"] = *body.Status
	}
	if body.Priority != nil {
		updates["priority"] = *body.Priority
	}
	if body.AssigneeID != nil {
		updates["assignee_id"] = *body.AssigneeID
	}
	if body.DueAt != nil {
		updates["due_at"] = *body.DueAt
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.ProjectTask{}).Where("id = ?", id).Updates(updates)
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

// Delete removes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.ProjectTask{}, id)
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

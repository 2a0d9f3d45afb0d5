package handlers

import (
	"errors"
	"net/http"

	"github.com/campusfront/campusfront/internal/invitation"
	"github.com/campusfront/campusfront/internal/permission"
	"github.com/gin-gonic/gin"
)

// InvitationHandler manages Level 2 admin invitations.
type InvitationHandler struct {
	svc *invitation.Service
}

// NewInvitationHandler constructs an InvitationHandler.
func NewInvitationHandler(svc *invitation.Service) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

// createInvitationRequest defines the request body for invitation creation.
type createInvitationRequest struct {
	Email        string                  `json:"email"`
	Name         string                  `json:"name"`
	Permissions  []permission.Permission `json:"permissions"`
	SchoolIDs    []uint64                `json:"school_ids"`
	Notes        string                  `json:"notes"`
	ValidityDays int                     `json:"validity_days"`
}

// Create issues a new invitation. The token and temp password appear in
// this response only; afterwards only their derived values exist.
func (h *InvitationHandler) Create(c *gin.Context) {
	var body createInvitationRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	creatorID, _ := readAdminIDFromContext(c)

	created, errCreate := h.svc.Create(c.Request.Context(), invitation.CreateParams{
		Email:        body.Email,
		Name:         body.Name,
		Permissions:  body.Permissions,
		SchoolIDs:    body.SchoolIDs,
		Notes:        body.Notes,
		ValidityDays: body.ValidityDays,
		CreatedBy:    creatorID,
	})
	if errCreate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCreate.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            created.ID,
		"token":         created.Token,
		"temp_password": created.TempPassword,
		"signup_link":   created.SignupLink,
		"expires_at":    created.ExpiresAt,
	})
}

// List returns pending invitations. Tokens are never echoed back.
func (h *InvitationHandler) List(c *gin.Context) {
	rows, errList := h.svc.ListPending(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list invitations failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":          row.ID,
			"email":       row.Email,
			"name":        row.Name,
			"permissions": permission.Parse(row.Permissions),
			"school_ids":  permission.ParseSchoolIDs(row.SchoolIDs),
			"notes":       row.Notes,
			"created_by":  row.CreatedBy,
			"expires_at":  row.ExpiresAt,
			"created_at":  row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"invitations": out})
}

// Revoke deletes a pending invitation.
func (h *InvitationHandler) Revoke(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if errRevoke := h.svc.Revoke(c.Request.Context(), id); errRevoke != nil {
		if errors.Is(errRevoke, invitation.ErrInvalidToken) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "revoke failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

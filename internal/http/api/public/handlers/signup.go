package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/campusfront/campusfront/internal/invitation"
	"github.com/campusfront/campusfront/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SignupHandler handles invitation signup and public school requests.
type SignupHandler struct {
	db  *gorm.DB
	svc *invitation.Service
}

// NewSignupHandler constructs a SignupHandler.
func NewSignupHandler(db *gorm.DB, svc *invitation.Service) *SignupHandler {
	return &SignupHandler{db: db, svc: svc}
}

// signupRequest defines the request body for invitation signup.
type signupRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ConsumeInvitation redeems an invitation token and creates the Level 2
// admin account.
func (h *SignupHandler) ConsumeInvitation(c *gin.Context) {
	var body signupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	admin, errConsume := h.svc.Consume(c.Request.Context(), body.Token, body.Email, body.Password)
	if errConsume != nil {
		switch {
		case errors.Is(errConsume, invitation.ErrInvalidToken):
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid invitation"})
		case errors.Is(errConsume, invitation.ErrAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "invitation already used"})
		case errors.Is(errConsume, invitation.ErrExpired):
			c.JSON(http.StatusGone, gin.H{"error": "invitation expired"})
		case errors.Is(errConsume, invitation.ErrEmailMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email does not match invitation"})
		case errors.Is(errConsume, invitation.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": errConsume.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    admin.ID,
		"email": admin.Email,
		"level": admin.Level,
	})
}

// schoolRequestBody defines the request body for a public school request.
type schoolRequestBody struct {
	SchoolName  string `json:"school_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
}

// CreateSchoolRequest records a school signup request from the marketing
// site.
func (h *SignupHandler) CreateSchoolRequest(c *gin.Context) {
	var body schoolRequestBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	schoolName := strings.TrimSpace(body.SchoolName)
	contactName := strings.TrimSpace(body.ContactName)
	email := strings.TrimSpace(body.Email)
	if schoolName == "" || contactName == "" || email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school_name, contact_name and email are required"})
		return
	}

	request := models.SchoolRequest{
		SchoolName:  schoolName,
		ContactName: contactName,
		Email:       email,
		Phone:       strings.TrimSpace(body.Phone),
		Notes:       strings.TrimSpace(body.Notes),
		Status:      models.SchoolRequestStatusNew,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&request).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create request failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": request.ID, "status": request.Status})
}

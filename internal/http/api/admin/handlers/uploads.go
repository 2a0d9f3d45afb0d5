package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusfront/campusfront/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowedImageExtensions limits uploads to common web image formats.
var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".svg":  {},
}

// UploadHandler stores section images on local disk.
type UploadHandler struct {
	cfg config.UploadsConfig
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(cfg config.UploadsConfig) *UploadHandler {
	return &UploadHandler{cfg: cfg}
}

// Upload accepts a multipart image file and returns its public path. File
// names are regenerated so uploads cannot collide or traverse directories.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, errFile := c.FormFile("file")
	if errFile != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if file.Size > h.cfg.MaxUploadBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	if errMkdir := os.MkdirAll(h.cfg.Dir, 0755); errMkdir != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prepare upload dir failed"})
		return
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(h.cfg.Dir, name)
	if errSave := c.SaveUploadedFile(file, dst); errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save file failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"filename": name,
		"url":      fmt.Sprintf("/uploads/%s", name),
		"size":     file.Size,
	})
}

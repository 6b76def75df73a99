package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/services"
	"github.com/uni10/storefront-api/utils"
)

// UploadImage handles POST /api/v1/admin/uploads - stores a product or QR
// image and returns its key and URL
func UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxFileSize+1024*1024)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "MISSING_FILE", "A file field named \"file\" is required")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Image storage is not configured")
		return
	}

	key, err := imageService.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			utils.RespondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		log.Printf("rid=%s image upload failed: %v", middleware.GetRequestID(c), err)
		utils.RespondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store image")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{
		"key": key,
		"url": imageService.GetImageURL(key),
	})
}

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves locally stored images
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		utils.RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		utils.RespondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if !utils.IsAllowedImageExt(filepath.Ext(filename)) {
		utils.RespondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only .png, .jpg, .jpeg and .webp files are supported")
		return
	}

	filePath := filepath.Join(config.GetConfig().UploadDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		utils.RespondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", utils.ImageContentType(filename))
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}

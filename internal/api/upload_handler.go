package api

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/service"
	"github.com/xenzys-api/internal/validation"
)

// UploadHandler handles the upload endpoint
type UploadHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/upload.
// Accepts a multipart form with a required video file, an optional
// thumbnail image and optional metadata fields.
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	maxSize := h.cfg.Upload.MaxUploadSize

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	videoFile := firstFile(form.File["video"])
	if videoFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file uploaded"})
		return
	}

	contentType := videoFile.Header.Get("Content-Type")
	if errs := validation.ValidateVideoFile(videoFile.Filename, contentType, videoFile.Size, maxSize); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message})
		return
	}

	thumbnailFile := firstFile(form.File["thumbnail"])
	if thumbnailFile != nil {
		ct := thumbnailFile.Header.Get("Content-Type")
		if errs := validation.ValidateThumbnailFile(thumbnailFile.Filename, ct, thumbnailFile.Size, maxSize); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message})
			return
		}
	}

	req := &models.UploadRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Duration:    c.PostForm("duration"),
	}
	if errs := validation.ValidateCategory(req.Category); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message})
		return
	}

	video, err := h.services.Upload.Process(ctx, req, videoFile, thumbnailFile)
	if err != nil {
		h.log.Error().Err(err).Str("filename", videoFile.Filename).Msg("Upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.log.Info().
		Str("video_id", video.ID).
		Str("filename", videoFile.Filename).
		Int64("size_bytes", videoFile.Size).
		Msg("Upload succeeded")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Upload successful",
		"video":   video,
	})
}

func firstFile(headers []*multipart.FileHeader) *multipart.FileHeader {
	if len(headers) == 0 {
		return nil
	}
	return headers[0]
}

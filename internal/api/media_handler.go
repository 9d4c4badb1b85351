package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/storage"
)

// MediaHandler serves stored objects and the object listing
type MediaHandler struct {
	store storage.ObjectStorage
	cfg   *config.Config
	log   zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(store storage.ObjectStorage, cfg *config.Config, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		store: store,
		cfg:   cfg,
		log:   log.With().Str("handler", "media").Logger(),
	}
}

// Serve handles GET /media/:filename, streaming the object with its
// content type. Objects are immutable once stored, hence the long
// cache lifetime.
func (h *MediaHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	rc, contentType, err := h.store.Open(ctx, filename)
	if errors.Is(err, storage.ErrObjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "path": filename})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("Failed to open object")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("Content-Disposition", "inline")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn().Err(err).Str("filename", filename).Msg("Playback stream interrupted")
	}
}

// List handles GET /api/files, returning stored objects
func (h *MediaHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	objects, err := h.store.List(ctx, 50)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list objects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(objects),
		"files": objects,
	})
}

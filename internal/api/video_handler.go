package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/repository"
	"github.com/xenzys-api/internal/service"
	"github.com/xenzys-api/internal/validation"
)

// VideoHandler handles video read and interaction endpoints
type VideoHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(services *service.Services, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		services: services,
		log:      log.With().Str("handler", "video").Logger(),
	}
}

// List handles GET /api/videos?type={video|short}
func (h *VideoHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	videos, err := h.services.Video.List(ctx, c.Query("type"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list videos")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, videos)
}

// Get handles GET /api/videos/:id
func (h *VideoHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	video, err := h.services.Video.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("video_id", id).Msg("Failed to get video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, video)
}

// Like handles POST /api/videos/:id/like
func (h *VideoHandler) Like(c *gin.Context) {
	h.incrementCounter(c, "likes", h.services.Video.Like)
}

// Dislike handles POST /api/videos/:id/dislike
func (h *VideoHandler) Dislike(c *gin.Context) {
	h.incrementCounter(c, "dislikes", h.services.Video.Dislike)
}

// View handles POST /api/videos/:id/view
func (h *VideoHandler) View(c *gin.Context) {
	h.incrementCounter(c, "views", h.services.Video.RecordView)
}

func (h *VideoHandler) incrementCounter(c *gin.Context, field string, increment func(ctx context.Context, id string) (int64, error)) {
	ctx := c.Request.Context()
	id := c.Param("id")

	value, err := increment(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("video_id", id).Str("counter", field).Msg("Failed to increment counter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{field: value})
}

// AddComment handles POST /api/videos/:id/comment
func (h *VideoHandler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req struct {
		Text     string `json:"text"`
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := validation.ValidateCommentText(req.Text); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message})
		return
	}

	comments, err := h.services.Video.AddComment(ctx, id, req.Text, req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("video_id", id).Msg("Failed to add comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/idgen"
	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/repository"
)

// videoService is the concrete implementation of VideoService
type videoService struct {
	repo repository.VideoRepository
	ids  idgen.Generator
	log  zerolog.Logger
}

func newVideoService(repo repository.VideoRepository, ids idgen.Generator, log zerolog.Logger) VideoService {
	return &videoService{
		repo: repo,
		ids:  ids,
		log:  log.With().Str("component", "video_service").Logger(),
	}
}

// List returns videos, optionally filtered by category
func (s *videoService) List(ctx context.Context, category string) ([]*models.Video, error) {
	return s.repo.List(ctx, category)
}

// Get returns the video with the given id
func (s *videoService) Get(ctx context.Context, id string) (*models.Video, error) {
	return s.repo.GetByID(ctx, id)
}

// Like increments the like counter and returns the new value
func (s *videoService) Like(ctx context.Context, id string) (int64, error) {
	return s.repo.IncrementLikes(ctx, id)
}

// Dislike increments the dislike counter and returns the new value
func (s *videoService) Dislike(ctx context.Context, id string) (int64, error) {
	return s.repo.IncrementDislikes(ctx, id)
}

// RecordView increments the view counter and returns the new value
func (s *videoService) RecordView(ctx context.Context, id string) (int64, error) {
	return s.repo.IncrementViews(ctx, id)
}

// AddComment appends a comment to the video and returns the updated
// comment sequence
func (s *videoService) AddComment(ctx context.Context, id, text, username string) ([]models.Comment, error) {
	if username == "" {
		username = models.DefaultUsername
	}

	comment := models.Comment{
		ID:        s.ids.NextID(),
		Text:      text,
		Username:  username,
		Timestamp: time.Now().UTC(),
		Likes:     0,
	}

	comments, err := s.repo.AppendComment(ctx, id, comment)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("video_id", id).
		Str("comment_id", comment.ID).
		Msg("Comment added")

	return comments, nil
}

// GetCount returns the number of videos, optionally filtered by category
func (s *videoService) GetCount(ctx context.Context, category string) (int, error) {
	return s.repo.Count(ctx, category)
}

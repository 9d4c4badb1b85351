package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/idgen"
	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/repository"
	"github.com/xenzys-api/internal/storage"
	"github.com/xenzys-api/internal/validation"
)

const (
	placeholderThumbnail = "https://via.placeholder.com/320x180/ff0000/ffffff?text="
	placeholderAvatar    = "https://via.placeholder.com/36/ff0000/ffffff?text=YC"
)

// uploadService orchestrates the upload flow: store the object first,
// then persist the video record. If the record cannot be persisted the
// stored objects are deleted again so no orphan is left behind.
type uploadService struct {
	repo  repository.VideoRepository
	store storage.ObjectStorage
	ids   idgen.Generator
	cfg   *config.Config
	log   zerolog.Logger
}

func newUploadService(repo repository.VideoRepository, store storage.ObjectStorage, ids idgen.Generator, cfg *config.Config, log zerolog.Logger) UploadService {
	return &uploadService{
		repo:  repo,
		store: store,
		ids:   ids,
		cfg:   cfg,
		log:   log.With().Str("component", "upload_service").Logger(),
	}
}

// Process stores the video file (and optional thumbnail), then creates
// and persists the video record
func (s *uploadService) Process(ctx context.Context, req *models.UploadRequest, video, thumbnail *multipart.FileHeader) (*models.Video, error) {
	key := s.storageKey(video.Filename)

	if err := s.storeFile(ctx, key, video); err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}

	thumbnailURL := placeholderThumbnail + url.QueryEscape(truncate(orDefault(req.Title, models.DefaultTitle), 10))
	thumbnailKey := ""
	if thumbnail != nil {
		thumbnailKey = s.storageKey(thumbnail.Filename)
		if err := s.storeFile(ctx, thumbnailKey, thumbnail); err != nil {
			s.cleanup(key, "")
			return nil, fmt.Errorf("failed to store thumbnail: %w", err)
		}
		thumbnailURL = s.mediaURL(thumbnailKey)
	}

	record := &models.Video{
		ID:            s.ids.NextID(),
		Title:         orDefault(req.Title, models.DefaultTitle),
		Description:   req.Description,
		Category:      orDefault(req.Category, models.CategoryVideo),
		Filename:      key,
		VideoURL:      s.mediaURL(key),
		Thumbnail:     thumbnailURL,
		Channel:       models.DefaultChannel,
		ChannelAvatar: placeholderAvatar,
		Views:         0,
		Likes:         0,
		Dislikes:      0,
		Comments:      make([]models.Comment, 0),
		UploadedAt:    time.Now().UTC(),
		Duration:      orDefault(req.Duration, models.DefaultDuration),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.cleanup(key, thumbnailKey)
		return nil, fmt.Errorf("failed to save video record: %w", err)
	}

	s.log.Info().
		Str("video_id", record.ID).
		Str("key", key).
		Str("category", record.Category).
		Int64("size_bytes", video.Size).
		Msg("Upload completed")

	return record, nil
}

// storageKey derives a unique object key from submission time and the
// sanitized original filename
func (s *uploadService) storageKey(filename string) string {
	name := validation.SanitizeFilename(filename)
	if name == "" {
		name = uuid.New().String()
	}
	return s.ids.NextID() + "-" + name
}

func (s *uploadService) storeFile(ctx context.Context, key string, header *multipart.FileHeader) error {
	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = storage.ContentTypeByName(header.Filename)
	}
	return s.store.Upload(ctx, key, f, header.Size, contentType)
}

// cleanup removes stored objects after a failed record write. The
// deletes are best effort: the upload already failed and the caller
// sees that error, not these.
func (s *uploadService) cleanup(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to clean up stored object")
		}
	}
}

func (s *uploadService) mediaURL(key string) string {
	return s.cfg.Storage.PublicBaseURL + "/media/" + key
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

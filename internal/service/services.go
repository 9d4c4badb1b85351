package service

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/idgen"
	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/repository"
	"github.com/xenzys-api/internal/storage"
)

// VideoService defines the interface for video record operations
type VideoService interface {
	List(ctx context.Context, category string) ([]*models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	Like(ctx context.Context, id string) (int64, error)
	Dislike(ctx context.Context, id string) (int64, error)
	RecordView(ctx context.Context, id string) (int64, error)
	AddComment(ctx context.Context, id, text, username string) ([]models.Comment, error)
	GetCount(ctx context.Context, category string) (int, error)
}

// UploadService defines the interface for the upload flow
type UploadService interface {
	Process(ctx context.Context, req *models.UploadRequest, video, thumbnail *multipart.FileHeader) (*models.Video, error)
}

// Services holds all service interfaces
type Services struct {
	Video  VideoService
	Upload UploadService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store storage.ObjectStorage, ids idgen.Generator, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Video:  newVideoService(repos.Video, ids, log),
		Upload: newUploadService(repos.Video, store, ids, cfg, log),
	}
}

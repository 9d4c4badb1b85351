package repository

import (
	"context"
	"errors"

	"github.com/xenzys-api/internal/database"
	"github.com/xenzys-api/internal/models"
)

// ErrNotFound is returned when no video exists for the given id
var ErrNotFound = errors.New("video not found")

// VideoRepository defines the interface for video record operations.
// Increment operations return the new counter value so backends can
// implement them as a single atomic statement.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, category string) ([]*models.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, category string) (int, error)
	IncrementLikes(ctx context.Context, id string) (int64, error)
	IncrementDislikes(ctx context.Context, id string) (int64, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
	AppendComment(ctx context.Context, id string, comment models.Comment) ([]models.Comment, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Video VideoRepository
}

// New creates all repositories backed by the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Video: NewVideoRepo(db),
	}
}

// NewMemory creates all repositories backed by in-process memory
func NewMemory() *Repositories {
	return &Repositories{
		Video: NewMemoryVideoRepo(),
	}
}

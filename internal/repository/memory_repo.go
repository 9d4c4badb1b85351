package repository

import (
	"context"
	"sync"

	"github.com/xenzys-api/internal/models"
)

// memoryVideoRepo is the in-process implementation of VideoRepository.
// A single RWMutex guards the map and insertion order, so increments
// are read-modify-write under the lock and never lose concurrent
// updates. Listing preserves insertion order.
type memoryVideoRepo struct {
	mu     sync.RWMutex
	videos map[string]*models.Video
	order  []string
}

// NewMemoryVideoRepo creates a new in-memory video repository
func NewMemoryVideoRepo() VideoRepository {
	return &memoryVideoRepo{
		videos: make(map[string]*models.Video),
		order:  make([]string, 0),
	}
}

// Create inserts a new video record
func (r *memoryVideoRepo) Create(ctx context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *video
	if stored.Comments == nil {
		stored.Comments = make([]models.Comment, 0)
	}
	if _, ok := r.videos[stored.ID]; !ok {
		r.order = append(r.order, stored.ID)
	}
	r.videos[stored.ID] = &stored
	return nil
}

// GetByID retrieves a copy of the video with the given ID
func (r *memoryVideoRepo) GetByID(ctx context.Context, id string) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	video, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyVideo(video), nil
}

// List retrieves videos in insertion order, optionally filtered by category
func (r *memoryVideoRepo) List(ctx context.Context, category string) ([]*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]*models.Video, 0, len(r.order))
	for _, id := range r.order {
		video := r.videos[id]
		if models.ValidCategories[category] && video.Category != category {
			continue
		}
		videos = append(videos, copyVideo(video))
	}
	return videos, nil
}

// Exists checks if a video with the given ID exists
func (r *memoryVideoRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.videos[id]
	return ok, nil
}

// Count returns the number of videos, optionally filtered by category
func (r *memoryVideoRepo) Count(ctx context.Context, category string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !models.ValidCategories[category] {
		return len(r.videos), nil
	}
	count := 0
	for _, video := range r.videos {
		if video.Category == category {
			count++
		}
	}
	return count, nil
}

// IncrementLikes increments the like counter
func (r *memoryVideoRepo) IncrementLikes(ctx context.Context, id string) (int64, error) {
	return r.increment(id, func(v *models.Video) *int64 { return &v.Likes })
}

// IncrementDislikes increments the dislike counter
func (r *memoryVideoRepo) IncrementDislikes(ctx context.Context, id string) (int64, error) {
	return r.increment(id, func(v *models.Video) *int64 { return &v.Dislikes })
}

// IncrementViews increments the view counter
func (r *memoryVideoRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	return r.increment(id, func(v *models.Video) *int64 { return &v.Views })
}

func (r *memoryVideoRepo) increment(id string, counter func(*models.Video) *int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	video, ok := r.videos[id]
	if !ok {
		return 0, ErrNotFound
	}
	c := counter(video)
	*c++
	return *c, nil
}

// AppendComment appends a comment and returns the updated sequence
func (r *memoryVideoRepo) AppendComment(ctx context.Context, id string, comment models.Comment) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	video, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	video.Comments = append(video.Comments, comment)

	comments := make([]models.Comment, len(video.Comments))
	copy(comments, video.Comments)
	return comments, nil
}

// copyVideo returns a deep enough copy that callers cannot mutate
// stored state through the returned record
func copyVideo(video *models.Video) *models.Video {
	c := *video
	c.Comments = make([]models.Comment, len(video.Comments))
	copy(c.Comments, video.Comments)
	return &c
}

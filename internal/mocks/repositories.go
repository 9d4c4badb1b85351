package mocks

import (
	"context"
	"sync"

	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/repository"
)

// MockVideoRepository is a mock implementation of VideoRepository.
// Err forces every operation to fail; CreateErr only Create.
type MockVideoRepository struct {
	mu        sync.Mutex
	Videos    map[string]*models.Video
	Order     []string
	Err       error
	CreateErr error
	Created   []*models.Video
}

// Verify interface compliance
var _ repository.VideoRepository = (*MockVideoRepository)(nil)

func NewMockVideoRepository() *MockVideoRepository {
	return &MockVideoRepository{
		Videos:  make(map[string]*models.Video),
		Order:   make([]string, 0),
		Created: make([]*models.Video, 0),
	}
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	if m.Err != nil {
		return m.Err
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Videos[video.ID]; !ok {
		m.Order = append(m.Order, video.ID)
	}
	m.Videos[video.ID] = video
	m.Created = append(m.Created, video)
	return nil
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	video, ok := m.Videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return video, nil
}

func (m *MockVideoRepository) List(ctx context.Context, category string) ([]*models.Video, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	videos := make([]*models.Video, 0, len(m.Order))
	for _, id := range m.Order {
		video := m.Videos[id]
		if models.ValidCategories[category] && video.Category != category {
			continue
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (m *MockVideoRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Videos[id]
	return ok, nil
}

func (m *MockVideoRepository) Count(ctx context.Context, category string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !models.ValidCategories[category] {
		return len(m.Videos), nil
	}
	count := 0
	for _, video := range m.Videos {
		if video.Category == category {
			count++
		}
	}
	return count, nil
}

func (m *MockVideoRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	return m.increment(id, func(v *models.Video) *int64 { return &v.Likes })
}

func (m *MockVideoRepository) IncrementDislikes(ctx context.Context, id string) (int64, error) {
	return m.increment(id, func(v *models.Video) *int64 { return &v.Dislikes })
}

func (m *MockVideoRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	return m.increment(id, func(v *models.Video) *int64 { return &v.Views })
}

func (m *MockVideoRepository) increment(id string, counter func(*models.Video) *int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	video, ok := m.Videos[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	c := counter(video)
	*c++
	return *c, nil
}

func (m *MockVideoRepository) AppendComment(ctx context.Context, id string, comment models.Comment) ([]models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	video, ok := m.Videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	video.Comments = append(video.Comments, comment)
	return video.Comments, nil
}

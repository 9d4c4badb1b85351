package mocks

import (
	"context"
	"mime/multipart"

	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/repository"
	"github.com/xenzys-api/internal/service"
)

// MockVideoService is a mock implementation of VideoService backed by
// a map of videos keyed by id
type MockVideoService struct {
	Videos map[string]*models.Video
	Order  []string
	Err    error
}

// Verify interface compliance
var _ service.VideoService = (*MockVideoService)(nil)

func NewMockVideoService() *MockVideoService {
	return &MockVideoService{
		Videos: make(map[string]*models.Video),
		Order:  make([]string, 0),
	}
}

// Add seeds a video for a test
func (m *MockVideoService) Add(video *models.Video) {
	if _, ok := m.Videos[video.ID]; !ok {
		m.Order = append(m.Order, video.ID)
	}
	m.Videos[video.ID] = video
}

func (m *MockVideoService) List(ctx context.Context, category string) ([]*models.Video, error) {
	if m.Err != nil {
		return nil, m.Err
	}
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

func (m *MockVideoService) Get(ctx context.Context, id string) (*models.Video, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	video, ok := m.Videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return video, nil
}

func (m *MockVideoService) Like(ctx context.Context, id string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	video, ok := m.Videos[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	video.Likes++
	return video.Likes, nil
}

func (m *MockVideoService) Dislike(ctx context.Context, id string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	video, ok := m.Videos[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	video.Dislikes++
	return video.Dislikes, nil
}

func (m *MockVideoService) RecordView(ctx context.Context, id string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	video, ok := m.Videos[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	video.Views++
	return video.Views, nil
}

func (m *MockVideoService) AddComment(ctx context.Context, id, text, username string) ([]models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	video, ok := m.Videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if username == "" {
		username = models.DefaultUsername
	}
	video.Comments = append(video.Comments, models.Comment{
		ID:       "comment-1",
		Text:     text,
		Username: username,
	})
	return video.Comments, nil
}

func (m *MockVideoService) GetCount(ctx context.Context, category string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
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

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	ProcessFunc func(ctx context.Context, req *models.UploadRequest, video, thumbnail *multipart.FileHeader) (*models.Video, error)
	Processed   []*models.UploadRequest
}

// Verify interface compliance
var _ service.UploadService = (*MockUploadService)(nil)

func NewMockUploadService() *MockUploadService {
	return &MockUploadService{
		Processed: make([]*models.UploadRequest, 0),
	}
}

func (m *MockUploadService) Process(ctx context.Context, req *models.UploadRequest, video, thumbnail *multipart.FileHeader) (*models.Video, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, req, video, thumbnail)
	}
	m.Processed = append(m.Processed, req)
	return &models.Video{
		ID:       "test-video-id",
		Title:    req.Title,
		Category: req.Category,
		Filename: video.Filename,
		Comments: make([]models.Comment, 0),
	}, nil
}

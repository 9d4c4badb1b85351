package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xenzys-api/internal/database"
	"github.com/xenzys-api/internal/models"
)

// videoRepo is the PostgreSQL implementation of VideoRepository.
// Comments live in a jsonb column, matching the shape the record is
// served in; counter updates are single conditional statements so
// concurrent increments cannot lose writes.
type videoRepo struct {
	db *database.DB
}

// NewVideoRepo creates a new PostgreSQL-backed video repository
func NewVideoRepo(db *database.DB) VideoRepository {
	return &videoRepo{db: db}
}

const videoColumns = `id, title, description, category, filename, video_url, thumbnail,
	channel, channel_avatar, views, likes, dislikes, comments, uploaded_at, duration`

// Create inserts a new video record
func (r *videoRepo) Create(ctx context.Context, video *models.Video) error {
	commentsJSON, err := json.Marshal(video.Comments)
	if err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}
	if video.Comments == nil {
		commentsJSON = []byte("[]")
	}

	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.ExecContext(ctx, query,
		video.ID, video.Title, video.Description, video.Category, video.Filename,
		video.VideoURL, video.Thumbnail, video.Channel, video.ChannelAvatar,
		video.Views, video.Likes, video.Dislikes, commentsJSON,
		video.UploadedAt, video.Duration,
	)
	return err
}

// GetByID retrieves a video by ID
func (r *videoRepo) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

// List retrieves videos, newest upload first, optionally filtered by category
func (r *videoRepo) List(ctx context.Context, category string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos`
	args := []interface{}{}

	if models.ValidCategories[category] {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]*models.Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// Exists checks if a video with the given ID exists
func (r *videoRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// Count returns the number of videos, optionally filtered by category
func (r *videoRepo) Count(ctx context.Context, category string) (int, error) {
	var count int
	if models.ValidCategories[category] {
		err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos WHERE category = $1", category).Scan(&count)
		return count, err
	}
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&count)
	return count, err
}

// IncrementLikes atomically increments the like counter
func (r *videoRepo) IncrementLikes(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(ctx, "likes", id)
}

// IncrementDislikes atomically increments the dislike counter
func (r *videoRepo) IncrementDislikes(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(ctx, "dislikes", id)
}

// IncrementViews atomically increments the view counter
func (r *videoRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(ctx, "views", id)
}

func (r *videoRepo) incrementCounter(ctx context.Context, column, id string) (int64, error) {
	// column is one of the fixed counter names, never user input
	query := fmt.Sprintf("UPDATE videos SET %s = %s + 1 WHERE id = $1 RETURNING %s", column, column, column)

	var value int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

// AppendComment atomically appends a comment to the video's comment
// sequence and returns the updated sequence
func (r *videoRepo) AppendComment(ctx context.Context, id string, comment models.Comment) ([]models.Comment, error) {
	elem, err := json.Marshal([]models.Comment{comment})
	if err != nil {
		return nil, fmt.Errorf("failed to encode comment: %w", err)
	}

	query := `UPDATE videos SET comments = comments || $2::jsonb WHERE id = $1 RETURNING comments`

	var commentsJSON []byte
	err = r.db.QueryRowContext(ctx, query, id, elem).Scan(&commentsJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := json.Unmarshal(commentsJSON, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// scanner abstracts sql.Row and sql.Rows for scanVideo
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVideo(s scanner) (*models.Video, error) {
	var video models.Video
	var commentsJSON []byte

	err := s.Scan(
		&video.ID, &video.Title, &video.Description, &video.Category, &video.Filename,
		&video.VideoURL, &video.Thumbnail, &video.Channel, &video.ChannelAvatar,
		&video.Views, &video.Likes, &video.Dislikes, &commentsJSON,
		&video.UploadedAt, &video.Duration,
	)
	if err != nil {
		return nil, err
	}

	video.Comments = make([]models.Comment, 0)
	json.Unmarshal(commentsJSON, &video.Comments)

	return &video, nil
}

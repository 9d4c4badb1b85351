package models

import (
	"time"
)

// Video represents a video record in the system.
// JSON tags follow the wire format the web client consumes.
type Video struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Category      string    `json:"category" db:"category"`
	Filename      string    `json:"filename" db:"filename"`
	VideoURL      string    `json:"videoUrl" db:"video_url"`
	Thumbnail     string    `json:"thumbnail" db:"thumbnail"`
	Channel       string    `json:"channel" db:"channel"`
	ChannelAvatar string    `json:"channelAvatar" db:"channel_avatar"`
	Views         int64     `json:"views" db:"views"`
	Likes         int64     `json:"likes" db:"likes"`
	Dislikes      int64     `json:"dislikes" db:"dislikes"`
	Comments      []Comment `json:"comments" db:"-"` // Stored as JSON in DB
	UploadedAt    time.Time `json:"uploadedAt" db:"uploaded_at"`
	Duration      string    `json:"duration" db:"duration"`
}

// Video categories
const (
	CategoryVideo = "video"
	CategoryShort = "short"
)

// ValidCategories defines allowed video categories
var ValidCategories = map[string]bool{
	CategoryVideo: true,
	CategoryShort: true,
}

// Defaults applied when upload metadata fields are absent
const (
	DefaultTitle    = "Untitled"
	DefaultDuration = "0:00"
	DefaultChannel  = "Your Channel"
)

// UploadRequest carries the metadata fields of a multipart upload
type UploadRequest struct {
	Title       string
	Description string
	Category    string
	Duration    string
}

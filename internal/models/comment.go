package models

import (
	"time"
)

// Comment represents a comment on a video
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int64     `json:"likes"`
}

// DefaultUsername is used when a comment is posted without one
const DefaultUsername = "Anonymous"

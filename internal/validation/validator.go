package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/storage"
)

var filenameSafe = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidateVideoFile validates the uploaded video file
func ValidateVideoFile(filename, contentType string, size, maxSize int64) []ValidationError {
	var errors []ValidationError

	if contentType == "" {
		contentType = storage.ContentTypeByName(filename)
	}
	if !strings.HasPrefix(contentType, "video/") {
		errors = append(errors, ValidationError{
			Field:   "video",
			Message: "Only video and image files are allowed",
			Value:   contentType,
		})
	}
	if size > maxSize {
		errors = append(errors, ValidationError{
			Field:   "video",
			Message: fmt.Sprintf("File too large. Max %dMB", maxSize/(1024*1024)),
		})
	}

	return errors
}

// ValidateThumbnailFile validates the optional thumbnail file
func ValidateThumbnailFile(filename, contentType string, size, maxSize int64) []ValidationError {
	var errors []ValidationError

	if contentType == "" {
		contentType = storage.ContentTypeByName(filename)
	}
	if !strings.HasPrefix(contentType, "image/") {
		errors = append(errors, ValidationError{
			Field:   "thumbnail",
			Message: "Only video and image files are allowed",
			Value:   contentType,
		})
	}
	if size > maxSize {
		errors = append(errors, ValidationError{
			Field:   "thumbnail",
			Message: fmt.Sprintf("File too large. Max %dMB", maxSize/(1024*1024)),
		})
	}

	return errors
}

// ValidateCategory checks the category against the video/short enum.
// An empty category is valid and defaults later.
func ValidateCategory(category string) []ValidationError {
	if category == "" || models.ValidCategories[category] {
		return nil
	}
	return []ValidationError{{
		Field:   "category",
		Message: "category must be one of: video, short",
		Value:   category,
	}}
}

// ValidateCommentText checks a comment body
func ValidateCommentText(text string) []ValidationError {
	if strings.TrimSpace(text) == "" {
		return []ValidationError{{Field: "text", Message: "text is required"}}
	}
	return nil
}

// SanitizeFilename strips every character outside [a-zA-Z0-9.-] so the
// original name can be embedded in a storage key
func SanitizeFilename(name string) string {
	return filenameSafe.ReplaceAllString(name, "")
}

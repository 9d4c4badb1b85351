package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/api"
	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/mocks"
	"github.com/xenzys-api/internal/models"
	"github.com/xenzys-api/internal/service"
)

func setupTestRouter() (*gin.Engine, *mocks.MockVideoService, *mocks.MockUploadService, *mocks.MockObjectStorage) {
	gin.SetMode(gin.TestMode)

	mockVideo := mocks.NewMockVideoService()
	mockUpload := mocks.NewMockUploadService()
	mockStore := mocks.NewMockObjectStorage()

	services := &service.Services{
		Video:  mockVideo,
		Upload: mockUpload,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "5000"},
		Storage: config.StorageConfig{
			Backend:       config.StorageLocal,
			PublicBaseURL: "http://localhost:5000",
		},
		Upload: config.UploadConfig{
			MaxUploadSize: 100 * 1024 * 1024,
		},
	}

	log := zerolog.Nop()
	router := api.NewRouter(services, mockStore, cfg, log)

	return router, mockVideo, mockUpload, mockStore
}

func seedVideo(mockVideo *mocks.MockVideoService, id, category string) *models.Video {
	video := &models.Video{
		ID:         id,
		Title:      "Video " + id,
		Category:   category,
		Filename:   id + ".mp4",
		VideoURL:   "http://localhost:5000/media/" + id + ".mp4",
		Comments:   make([]models.Comment, 0),
		UploadedAt: time.Now(),
		Duration:   "0:00",
	}
	mockVideo.Add(video)
	return video
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "xenzys-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestTestEndpoint(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["message"] != "Server is running" {
		t.Errorf("Unexpected message: %v", response["message"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)
	seedVideo(mockVideo, "v2", models.CategoryVideo)
	seedVideo(mockVideo, "s1", models.CategoryShort)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	db := response["database"].(map[string]interface{})
	if db["total"].(float64) != 3 {
		t.Errorf("Expected 3 total, got %v", db["total"])
	}
	if db["shorts"].(float64) != 1 {
		t.Errorf("Expected 1 short, got %v", db["shorts"])
	}
}

func TestListVideos(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)
	seedVideo(mockVideo, "s1", models.CategoryShort)

	req := httptest.NewRequest("GET", "/api/videos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var videos []models.Video
	if err := json.Unmarshal(w.Body.Bytes(), &videos); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(videos) != 2 {
		t.Errorf("Expected 2 videos, got %d", len(videos))
	}
}

func TestListVideos_TypeFilter(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)
	seedVideo(mockVideo, "s1", models.CategoryShort)
	seedVideo(mockVideo, "s2", models.CategoryShort)

	req := httptest.NewRequest("GET", "/api/videos?type=short", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var videos []models.Video
	json.Unmarshal(w.Body.Bytes(), &videos)

	if len(videos) != 2 {
		t.Fatalf("Expected 2 shorts, got %d", len(videos))
	}
	for _, video := range videos {
		if video.Category != models.CategoryShort {
			t.Errorf("Short feed returned category %q", video.Category)
		}
	}
}

func TestGetVideo(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)

	req := httptest.NewRequest("GET", "/api/videos/v1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var video models.Video
	json.Unmarshal(w.Body.Bytes(), &video)
	if video.ID != "v1" {
		t.Errorf("Expected video v1, got %s", video.ID)
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/videos/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "Video not found" {
		t.Errorf("Unexpected error message: %v", response["error"])
	}
}

func TestLikeVideo(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)

	req := httptest.NewRequest("POST", "/api/videos/v1/like", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["likes"].(float64) != 1 {
		t.Errorf("Expected 1 like, got %v", response["likes"])
	}
}

func TestDislikeVideo(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)

	req := httptest.NewRequest("POST", "/api/videos/v1/dislike", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["dislikes"].(float64) != 1 {
		t.Errorf("Expected 1 dislike, got %v", response["dislikes"])
	}
}

func TestViewVideo(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)

	req := httptest.NewRequest("POST", "/api/videos/v1/view", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["views"].(float64) != 1 {
		t.Errorf("Expected 1 view, got %v", response["views"])
	}
}

func TestCounterRoutes_NotFound(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	existing := seedVideo(mockVideo, "v1", models.CategoryVideo)

	for _, route := range []string{"like", "dislike", "view", "comment"} {
		var body *bytes.Buffer
		if route == "comment" {
			body = bytes.NewBufferString(`{"text":"hi"}`)
		} else {
			body = bytes.NewBuffer(nil)
		}
		req := httptest.NewRequest("POST", "/api/videos/missing/"+route, body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", route, w.Code)
		}
	}

	// No other record was altered by the misses
	if existing.Likes != 0 || existing.Dislikes != 0 || existing.Views != 0 || len(existing.Comments) != 0 {
		t.Errorf("Existing record was altered: %+v", existing)
	}
}

func TestAddComment_RoundTrip(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)

	body := bytes.NewBufferString(`{"text":"first!","username":"alice"}`)
	req := httptest.NewRequest("POST", "/api/videos/v1/comment", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// The comment appears as the last element of a subsequent GET
	req = httptest.NewRequest("GET", "/api/videos/v1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var video models.Video
	json.Unmarshal(w.Body.Bytes(), &video)
	if len(video.Comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(video.Comments))
	}
	last := video.Comments[len(video.Comments)-1]
	if last.Text != "first!" || last.Username != "alice" {
		t.Errorf("Comment not preserved exactly: %+v", last)
	}
}

func TestAddComment_EmptyText(t *testing.T) {
	router, mockVideo, _, _ := setupTestRouter()
	seedVideo(mockVideo, "v1", models.CategoryVideo)

	body := bytes.NewBufferString(`{"text":""}`)
	req := httptest.NewRequest("POST", "/api/videos/v1/comment", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// buildUpload creates a multipart request body with the given file field
func buildUpload(t *testing.T, field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart failed: %v", err)
		}
		part.Write(data)
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()

	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	router, _, mockUpload, _ := setupTestRouter()

	body, contentType := buildUpload(t, "video", "clip.mp4", "video/mp4", []byte("bytes"), map[string]string{
		"title":    "My Clip",
		"category": "short",
	})

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Success bool         `json:"success"`
		Video   models.Video `json:"video"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if !response.Success {
		t.Error("Expected success response")
	}
	if response.Video.Title != "My Clip" {
		t.Errorf("Expected title 'My Clip', got %q", response.Video.Title)
	}
	if len(mockUpload.Processed) != 1 {
		t.Errorf("Expected 1 processed upload, got %d", len(mockUpload.Processed))
	}
}

func TestUpload_MissingVideoFile(t *testing.T) {
	router, _, mockUpload, _ := setupTestRouter()

	body, contentType := buildUpload(t, "video", "", "", nil, map[string]string{
		"title": "No File",
	})

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "No video file uploaded" {
		t.Errorf("Unexpected error message: %v", response["error"])
	}
	if len(mockUpload.Processed) != 0 {
		t.Error("Upload should not reach the service without a file")
	}
}

func TestUpload_RejectsWrongMimeType(t *testing.T) {
	router, _, mockUpload, _ := setupTestRouter()

	body, contentType := buildUpload(t, "video", "malware.exe", "application/octet-stream", []byte("MZ"), nil)

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if len(mockUpload.Processed) != 0 {
		t.Error("Rejected upload must not reach the service")
	}
}

func TestUpload_RejectsBadCategory(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	body, contentType := buildUpload(t, "video", "clip.mp4", "video/mp4", []byte("bytes"), map[string]string{
		"category": "livestream",
	})

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUpload_ServiceError(t *testing.T) {
	router, _, mockUpload, _ := setupTestRouter()
	mockUpload.ProcessFunc = func(ctx context.Context, req *models.UploadRequest, video, thumbnail *multipart.FileHeader) (*models.Video, error) {
		return nil, errors.New("bucket unavailable")
	}

	body, contentType := buildUpload(t, "video", "clip.mp4", "video/mp4", []byte("bytes"), nil)

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestServeMedia(t *testing.T) {
	router, _, _, mockStore := setupTestRouter()
	mockStore.Upload(context.Background(), "clip.mp4", bytes.NewReader([]byte("video bytes")), 11, "video/mp4")

	req := httptest.NewRequest("GET", "/media/clip.mp4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "video/mp4" {
		t.Errorf("Expected video/mp4, got %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("Content-Disposition") != "inline" {
		t.Errorf("Expected inline disposition, got %q", w.Header().Get("Content-Disposition"))
	}
	if w.Body.String() != "video bytes" {
		t.Errorf("Unexpected body: %q", w.Body.String())
	}
}

func TestServeMedia_NotFound(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/media/missing.mp4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestListFiles(t *testing.T) {
	router, _, _, mockStore := setupTestRouter()
	mockStore.Upload(context.Background(), "a.mp4", bytes.NewReader([]byte("aa")), 2, "video/mp4")
	mockStore.Upload(context.Background(), "b.mp4", bytes.NewReader([]byte("bb")), 2, "video/mp4")

	req := httptest.NewRequest("GET", "/api/files", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["total"].(float64) != 2 {
		t.Errorf("Expected 2 files, got %v", response["total"])
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/videos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 204 {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected permissive CORS, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

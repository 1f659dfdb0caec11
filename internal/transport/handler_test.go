package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-reveal-quiz/internal/analyzer"
	"go-reveal-quiz/internal/config"
	"go-reveal-quiz/internal/dataset"
	"go-reveal-quiz/internal/dictionary"
	"go-reveal-quiz/internal/observer"
	"go-reveal-quiz/internal/repository"
	"go-reveal-quiz/internal/service"
	"go-reveal-quiz/internal/session"
	"go-reveal-quiz/internal/storage"
	"go-reveal-quiz/pkg/models"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "cat_01.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := &config.Config{
		RequestTimeout:     10 * time.Second,
		ImageFetchTimeout:  10 * time.Second,
		MaxRequestBodySize: 1 << 20,
		DefaultMode:        "blur",
		DefaultTimeLimit:   60,
		RoundTTL:           10 * time.Minute,
	}

	loader, err := dataset.NewLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	registry := session.NewRegistry()
	events := observer.NewEventPublisher()
	stats := observer.NewStatsObserver()
	events.Subscribe(stats)

	pool := analyzer.NewWorkerPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	repo := repository.NewImageRepository(loader, storage.NewHTTPImageFetcher(10*time.Second), nil)
	rounds := service.NewRoundService(cfg, repo, registry, dictionary.NewEmpty(), loader, events, stats, pool)
	return NewHandler(rounds, cfg)
}

func createTestRound(t *testing.T, h http.Handler, body string) models.RoundResponse {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rounds", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.RoundResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode round response: %v", err)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateRoundEndpoint(t *testing.T) {
	h := newTestHandler(t)

	resp := createTestRound(t, h, `{"time_limit": 60}`)
	if resp.ID == "" {
		t.Error("expected a round id")
	}
	if resp.Mode != "blur" {
		t.Errorf("expected default mode blur, got %q", resp.Mode)
	}
}

func TestCreateRoundEndpoint_InvalidBody(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rounds", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCreateRoundEndpoint_BadSource(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rounds", bytes.NewBufferString(`{"source":"ftp"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestFrameEndpoint(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{"time_limit": 60}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/rounds/%s/frame?elapsed=30", round.ID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}

	frame, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("frame is not a valid png: %v", err)
	}
	if frame.Bounds().Dx() != round.Width || frame.Bounds().Dy() != round.Height {
		t.Errorf("unexpected frame dimensions: %v", frame.Bounds())
	}
}

func TestFrameEndpoint_BadElapsed(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/rounds/%s/frame?elapsed=soon", round.ID), nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestFrameEndpoint_UnknownRound(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rounds/nope/frame", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGuessEndpoint(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{"time_limit": 60}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/rounds/%s/guess", round.ID),
		bytes.NewBufferString(`{"text": "cat", "elapsed": 30}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.GuessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode guess response: %v", err)
	}
	if !resp.Correct {
		t.Error("expected correct guess")
	}
	if resp.Score != 50 {
		t.Errorf("expected score 50 at half time, got %v", resp.Score)
	}
}

func TestGuessEndpoint_MissingText(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/rounds/%s/guess", round.ID),
		bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing text, got %d", w.Code)
	}
}

func TestScoreEndpoint(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{"time_limit": 60}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/rounds/%s/score?elapsed=60", round.ID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.ScoreResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode score response: %v", err)
	}
	if resp.Score != 0 || resp.Progress != 1 {
		t.Errorf("expected score 0 and progress 1 at the limit, got %+v", resp)
	}
}

func TestOverrideAnswerEndpoint(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/rounds/%s/answer", round.ID),
		bytes.NewBufferString(`{"answer": "lynx"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// The overridden answer must now match.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/rounds/%s/guess", round.ID),
		bytes.NewBufferString(`{"text": "lynx", "elapsed": 0}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	var resp models.GuessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode guess response: %v", err)
	}
	if !resp.Correct {
		t.Error("expected guess to match the overridden answer")
	}
}

func TestCloseRoundEndpoint(t *testing.T) {
	h := newTestHandler(t)
	round := createTestRound(t, h, `{}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/rounds/"+round.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rounds/"+round.ID+"/frame", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after close, got %d", w.Code)
	}
}

func TestDatasetStatsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dataset/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.DatasetStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode stats response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("expected 1 dataset image, got %d", resp.Count)
	}
	if resp.Categories["cat"] != 1 {
		t.Errorf("unexpected categories: %v", resp.Categories)
	}
}

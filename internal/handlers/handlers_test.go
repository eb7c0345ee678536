package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"slideforge/internal/database"
	"slideforge/internal/models"
	"slideforge/internal/pipeline"
	"slideforge/internal/services"
)

type stubEnricher struct{}

func (stubEnricher) GenerateSlideTitles(_ context.Context, topic string, numSlides int) ([]string, error) {
	titles := make([]string, numSlides)
	for i := range titles {
		titles[i] = fmt.Sprintf("%s Part %d", topic, i+1)
	}
	return titles, nil
}

func (stubEnricher) EnrichPrompt(context.Context, models.PresentationRequest) string {
	return "shared context"
}

func (stubEnricher) GenerateSlideBodies(_ context.Context, req models.PresentationRequest, titles []string, _ string) ([]string, error) {
	bodies := make([]string, len(titles))
	for i := range bodies {
		bodies[i] = "First point\nSecond point"
	}
	return bodies, nil
}

// newTestApp wires the full route table against a stub model and a temp
// database, mirroring the server wiring.
func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "feedback.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}

	outputDir := t.TempDir()
	feedbackService := services.NewFeedbackService(db)
	engine := pipeline.NewEngine(stubEnricher{}, feedbackService, pipeline.Options{
		OutputDir:     outputDir,
		TitleFallback: true,
	})

	healthHandler := NewHealthHandler()
	generateHandler := NewGenerateHandler(engine, nil)
	artifactHandler := NewArtifactHandler(outputDir)
	feedbackHandler := NewFeedbackHandler(feedbackService, nil)

	app := fiber.New()
	app.Get("/health", healthHandler.Handle)
	app.Post("/generate_ppt", generateHandler.Generate)
	app.Get("/preview_ppt/:filename", artifactHandler.Preview)
	app.Get("/download_ppt/:filename", artifactHandler.Download)
	app.Post("/feedback", feedbackHandler.Submit)
	app.Get("/preferences/:topic", feedbackHandler.Preferences)

	return app, outputDir
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestGenerateEndpoint(t *testing.T) {
	app, outputDir := newTestApp(t)

	status, body := postJSON(t, app, "/generate_ppt", models.PresentationRequest{Topic: "Solar Power", NumSlides: 2})
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if body["file"] != "Solar_Power_presentation.pptx" {
		t.Errorf("file = %v", body["file"])
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Solar_Power_presentation.pptx")); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}

func TestGenerateEndpointRejectsBadInput(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name    string
		payload models.PresentationRequest
	}{
		{"empty topic", models.PresentationRequest{NumSlides: 3}},
		{"too many slides", models.PresentationRequest{Topic: "Solar", NumSlides: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/generate_ppt", tt.payload)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if _, ok := body["detail"]; !ok {
				t.Errorf("error body missing detail: %v", body)
			}
		})
	}
}

func TestGenerateEndpointRejectsMalformedJSON(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/generate_ppt", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/feedback", map[string]string{"topic": "Solar", "feedback": "more charts"})
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	status, _ = postJSON(t, app, "/feedback", map[string]string{"topic": "Solar", "feedback": "  "})
	if status != http.StatusBadRequest {
		t.Errorf("blank feedback: status = %d, want 400", status)
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/preferences/unknown-topic", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown topic: status = %d, want 404", resp.StatusCode)
	}

	// A successful generation stores a snapshot retrievable afterwards.
	if status, body := postJSON(t, app, "/generate_ppt", models.PresentationRequest{Topic: "Solar", NumSlides: 1}); status != http.StatusOK {
		t.Fatalf("generation failed: status %d, body %v", status, body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/preferences/Solar", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var prefs models.UserPreferences
	if err := json.NewDecoder(resp.Body).Decode(&prefs); err != nil {
		t.Fatalf("failed to decode preferences: %v", err)
	}
	if prefs.Topic != "Solar" || prefs.NumSlides != 1 {
		t.Errorf("preferences = %+v", prefs)
	}
}

func TestPreviewEndpointRejectsBadNames(t *testing.T) {
	app, _ := newTestApp(t)

	for _, name := range []string{"missing.pptx", "notes.txt", "..hidden.pptx"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/preview_ppt/"+name, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("preview %q: status = %d, want 404", name, resp.StatusCode)
		}
	}
}

func TestDownloadEndpoint(t *testing.T) {
	app, outputDir := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/download_ppt/missing.pptx", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing artifact: status = %d, want 404", resp.StatusCode)
	}

	// Generate a real artifact, then download it.
	if status, body := postJSON(t, app, "/generate_ppt", models.PresentationRequest{Topic: "Solar", NumSlides: 1}); status != http.StatusOK {
		t.Fatalf("generation failed: status %d, body %v", status, body)
	}
	name := "Solar_presentation.pptx"
	if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
		t.Fatalf("artifact not on disk: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/download_ppt/"+name, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != pptxContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd == "" {
		t.Error("missing Content-Disposition header")
	}
}

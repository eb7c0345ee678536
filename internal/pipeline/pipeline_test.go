package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slideforge/internal/models"
)

// stubEnricher drives the pipeline without a model.
type stubEnricher struct {
	titlesErr error
	bodiesErr error
}

func (s *stubEnricher) GenerateSlideTitles(_ context.Context, topic string, numSlides int) ([]string, error) {
	if s.titlesErr != nil {
		return nil, s.titlesErr
	}
	titles := make([]string, numSlides)
	for i := range titles {
		titles[i] = fmt.Sprintf("%s Part %d", topic, i+1)
	}
	return titles, nil
}

func (s *stubEnricher) EnrichPrompt(context.Context, models.PresentationRequest) string {
	return "shared context"
}

func (s *stubEnricher) GenerateSlideBodies(_ context.Context, req models.PresentationRequest, titles []string, _ string) ([]string, error) {
	if s.bodiesErr != nil {
		return nil, s.bodiesErr
	}
	bodies := make([]string, len(titles))
	for i := range bodies {
		bodies[i] = fmt.Sprintf("Point one for slide %d\nPoint two for slide %d", i+1, i+1)
	}
	return bodies, nil
}

type stubPreferences struct {
	stored []models.UserPreferences
}

func (s *stubPreferences) StoreUserPreferences(p models.UserPreferences) error {
	s.stored = append(s.stored, p)
	return nil
}

func newTestEngine(t *testing.T, enricher Enricher) (*Engine, *stubPreferences, string) {
	t.Helper()
	dir := t.TempDir()
	prefs := &stubPreferences{}
	engine := NewEngine(enricher, prefs, Options{OutputDir: dir, TitleFallback: true})
	return engine, prefs, dir
}

func TestRunProducesArtifact(t *testing.T) {
	engine, prefs, dir := newTestEngine(t, &stubEnricher{})

	outcome, failure := engine.Run(context.Background(), models.PresentationRequest{Topic: "Solar Power", NumSlides: 3})
	if failure != nil {
		t.Fatalf("Run failed: %v", failure)
	}

	if outcome.Filename != "Solar_Power_presentation.pptx" {
		t.Errorf("filename = %q", outcome.Filename)
	}
	if len(outcome.Slides) != 3 {
		t.Errorf("got %d slides, want 3", len(outcome.Slides))
	}
	for i, s := range outcome.Slides {
		if s.Index != i {
			t.Errorf("slide %d has index %d", i, s.Index)
		}
		if s.Title == "" || s.Body == "" {
			t.Errorf("slide %d has empty content: %+v", i, s)
		}
	}

	info, err := os.Stat(filepath.Join(dir, outcome.Filename))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("artifact is empty")
	}

	if len(prefs.stored) != 1 || prefs.stored[0].Topic != "Solar Power" {
		t.Errorf("preference snapshot not stored: %+v", prefs.stored)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	engine, _, _ := newTestEngine(t, &stubEnricher{})

	tests := []struct {
		name string
		req  models.PresentationRequest
	}{
		{"empty topic", models.PresentationRequest{Topic: "   ", NumSlides: 3}},
		{"zero slides", models.PresentationRequest{Topic: "Solar", NumSlides: 0}},
		{"too many slides", models.PresentationRequest{Topic: "Solar", NumSlides: 21}},
		{"slash in topic", models.PresentationRequest{Topic: "TCP/IP", NumSlides: 3}},
		{"backslash in topic", models.PresentationRequest{Topic: `a\b`, NumSlides: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, failure := engine.Run(context.Background(), tt.req)
			if failure == nil {
				t.Fatal("expected failure")
			}
			if !failure.ClientError {
				t.Errorf("failure should be a client error: %+v", failure)
			}
			if failure.State != StateReceived {
				t.Errorf("failure state = %s, want %s", failure.State, StateReceived)
			}
		})
	}
}

func TestRunTopicCannotEscapeOutputDir(t *testing.T) {
	engine, prefs, dir := newTestEngine(t, &stubEnricher{})

	_, failure := engine.Run(context.Background(), models.PresentationRequest{Topic: "../escape", NumSlides: 1})
	if failure == nil {
		t.Fatal("expected failure")
	}
	if !failure.ClientError || failure.State != StateReceived {
		t.Errorf("traversal topic must be rejected as client input: %+v", failure)
	}

	// Nothing may be written next to, or outside of, the output directory.
	if _, err := os.Stat(filepath.Join(dir, "..", "escape_presentation.pptx")); !os.IsNotExist(err) {
		t.Error("artifact written outside the output directory")
	}
	if len(prefs.stored) != 0 {
		t.Error("no preference snapshot may be stored for a rejected request")
	}
}

func TestRunFallsBackOnTitleFailure(t *testing.T) {
	engine, _, _ := newTestEngine(t, &stubEnricher{titlesErr: errors.New("model down")})

	outcome, failure := engine.Run(context.Background(), models.PresentationRequest{Topic: "Solar", NumSlides: 2})
	if failure != nil {
		t.Fatalf("Run failed despite fallback: %v", failure)
	}
	for i, s := range outcome.Slides {
		want := fmt.Sprintf("Slide %d: Solar", i+1)
		if !strings.Contains(s.Title, want) {
			t.Errorf("slide %d title = %q, want placeholder %q", i, s.Title, want)
		}
	}
}

func TestRunFailsOnTitleFailureWithoutFallback(t *testing.T) {
	prefs := &stubPreferences{}
	engine := NewEngine(&stubEnricher{titlesErr: errors.New("model down")}, prefs,
		Options{OutputDir: t.TempDir(), TitleFallback: false})

	_, failure := engine.Run(context.Background(), models.PresentationRequest{Topic: "Solar", NumSlides: 2})
	if failure == nil {
		t.Fatal("expected failure")
	}
	if failure.State != StateTitlesRequested {
		t.Errorf("failure state = %s, want %s", failure.State, StateTitlesRequested)
	}
	if failure.ClientError {
		t.Error("upstream failure must not be a client error")
	}
}

func TestRunBodiesFailureLeavesNoArtifact(t *testing.T) {
	engine, prefs, dir := newTestEngine(t, &stubEnricher{bodiesErr: errors.New("slide 2 came back empty")})

	_, failure := engine.Run(context.Background(), models.PresentationRequest{Topic: "Solar", NumSlides: 2})
	if failure == nil {
		t.Fatal("expected failure")
	}
	if failure.State != StateBodiesRequested {
		t.Errorf("failure state = %s, want %s", failure.State, StateBodiesRequested)
	}

	if _, err := os.Stat(filepath.Join(dir, ArtifactName("Solar"))); !os.IsNotExist(err) {
		t.Error("no artifact may be written for a failed request")
	}
	if len(prefs.stored) != 0 {
		t.Error("no preference snapshot may be stored for a failed request")
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Solar Power", "Solar_Power_presentation.pptx"},
		{"  AI in Medicine ", "AI_in_Medicine_presentation.pptx"},
		{"Go", "Go_presentation.pptx"},
	}
	for _, tt := range tests {
		if got := ArtifactName(tt.topic); got != tt.want {
			t.Errorf("ArtifactName(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestRunOverwritesExistingArtifact(t *testing.T) {
	engine, _, dir := newTestEngine(t, &stubEnricher{})
	path := filepath.Join(dir, ArtifactName("Solar"))
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, failure := engine.Run(context.Background(), models.PresentationRequest{Topic: "Solar", NumSlides: 1})
	if failure != nil {
		t.Fatalf("Run failed: %v", failure)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "stale" {
		t.Error("existing artifact was not replaced")
	}
}

// Package pipeline sequences enrichment, slide assembly, formatting, and
// artifact persistence into one state machine per generation request.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"slideforge/internal/deck"
	"slideforge/internal/format"
	"slideforge/internal/models"
	"slideforge/internal/services"
)

// State is one stage of a generation request. The pipeline only moves
// forward; any stage can take the failure edge.
type State string

const (
	StateReceived        State = "received"
	StateTitlesRequested State = "titles_requested"
	StateTitlesValidated State = "titles_validated"
	StateBodiesRequested State = "bodies_requested"
	StateBodiesValidated State = "bodies_validated"
	StateAssembled       State = "assembled"
	StateFormatted       State = "formatted"
	StateSaved           State = "saved"
)

// Failure is the single structured failure surfaced for a request: the state
// it died in, a human-readable reason, and whether the fault was the
// client's input. Internal detail stays in the wrapped error and the logs.
type Failure struct {
	State       State
	Reason      string
	ClientError bool
	Err         error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %s", f.State, f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is a successful run: the artifact written and the slides it holds.
type Outcome struct {
	Filename string
	Slides   []models.SlideSpec
}

// Enricher is the slice of the enrichment engine the pipeline drives.
type Enricher interface {
	GenerateSlideTitles(ctx context.Context, topic string, numSlides int) ([]string, error)
	EnrichPrompt(ctx context.Context, req models.PresentationRequest) string
	GenerateSlideBodies(ctx context.Context, req models.PresentationRequest, titles []string, enrichedPrompt string) ([]string, error)
}

// PreferenceWriter persists the styling snapshot of a successful request.
type PreferenceWriter interface {
	StoreUserPreferences(p models.UserPreferences) error
}

// Options tune pipeline policy.
type Options struct {
	OutputDir       string
	TitleFallback   bool   // degrade to placeholder titles instead of failing
	BackgroundColor string // flat fill applied to every slide
}

// Engine runs generation requests through the pipeline.
type Engine struct {
	enricher    Enricher
	preferences PreferenceWriter
	opts        Options
}

// NewEngine creates a pipeline engine.
func NewEngine(enricher Enricher, preferences PreferenceWriter, opts Options) *Engine {
	if opts.OutputDir == "" {
		opts.OutputDir = "./output"
	}
	if opts.BackgroundColor == "" {
		opts.BackgroundColor = "#FFFFFF"
	}
	return &Engine{enricher: enricher, preferences: preferences, opts: opts}
}

// ArtifactName derives the output filename for a topic deterministically.
func ArtifactName(topic string) string {
	return strings.ReplaceAll(strings.TrimSpace(topic), " ", "_") + "_presentation.pptx"
}

// Run executes one request to completion or failure. Formatting and save are
// the last steps; no partial artifact is ever left behind.
func (e *Engine) Run(ctx context.Context, req models.PresentationRequest) (*Outcome, *Failure) {
	// Received: reject bad input before any external call.
	if strings.TrimSpace(req.Topic) == "" {
		return nil, &Failure{State: StateReceived, Reason: "topic must not be empty", ClientError: true}
	}
	// The topic becomes the artifact filename; path characters would let it
	// escape the output directory.
	if strings.ContainsAny(req.Topic, `/\`) || strings.Contains(req.Topic, "..") {
		return nil, &Failure{State: StateReceived, Reason: "topic must not contain path characters", ClientError: true}
	}
	if req.NumSlides < models.MinSlides || req.NumSlides > models.MaxSlides {
		return nil, &Failure{
			State:       StateReceived,
			Reason:      fmt.Sprintf("num_slides must be between %d and %d", models.MinSlides, models.MaxSlides),
			ClientError: true,
		}
	}
	req.ApplyDefaults()

	log.Printf("🟢 [PIPELINE] Generating PPT for topic: %s | Slides: %d", req.Topic, req.NumSlides)

	// TitlesRequested → TitlesValidated.
	titles, err := e.enricher.GenerateSlideTitles(ctx, req.Topic, req.NumSlides)
	if err != nil {
		if !e.opts.TitleFallback {
			return nil, &Failure{State: StateTitlesRequested, Reason: err.Error(), Err: err}
		}
		log.Printf("⚠️  [PIPELINE] Title generation failed, using placeholders: %v", err)
		titles = services.FallbackTitles(req.Topic, req.NumSlides)
	}

	// Shared enrichment context; never fails, degrades to a placeholder.
	enriched := e.enricher.EnrichPrompt(ctx, req)

	// BodiesRequested → BodiesValidated: strict, no fallback.
	bodies, err := e.enricher.GenerateSlideBodies(ctx, req, titles, enriched)
	if err != nil {
		return nil, &Failure{State: StateBodiesRequested, Reason: err.Error(), Err: err}
	}

	// Assembled.
	d, err := deck.Assemble(req.Topic, titles, bodies)
	if err != nil {
		return nil, &Failure{State: StateAssembled, Reason: err.Error(), Err: err}
	}

	// Formatted.
	prefs := models.UserPreferences{
		Topic:       req.Topic,
		NumSlides:   req.NumSlides,
		FontChoice:  req.FontChoice,
		ColorScheme: req.ColorScheme,
	}
	format.ApplyFormatting(d, prefs, e.opts.BackgroundColor)

	// Saved: delete-then-write, never merge.
	filename := ArtifactName(req.Topic)
	path := filepath.Join(e.opts.OutputDir, filename)

	data, err := deck.Render(d)
	if err != nil {
		return nil, &Failure{State: StateFormatted, Reason: "failed to render presentation", Err: err}
	}

	if err := os.MkdirAll(e.opts.OutputDir, 0o755); err != nil {
		return nil, &Failure{State: StateSaved, Reason: "failed to create output directory", Err: err}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, &Failure{State: StateSaved, Reason: "failed to replace existing artifact", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, &Failure{State: StateSaved, Reason: "failed to write artifact", Err: err}
	}

	// Preference snapshot is best-effort bookkeeping, never fatal.
	snapshot := models.DefaultPreferences(req.Topic, req.NumSlides)
	snapshot.FontChoice = req.FontChoice
	snapshot.ColorScheme = req.ColorScheme
	if err := e.preferences.StoreUserPreferences(snapshot); err != nil {
		log.Printf("⚠️  [PIPELINE] Failed to store preference snapshot: %v", err)
	}

	log.Printf("✅ [PIPELINE] Presentation saved successfully: %s", path)

	return &Outcome{Filename: filename, Slides: d.Specs()}, nil
}

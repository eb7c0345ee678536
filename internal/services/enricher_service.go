package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"slideforge/internal/models"
)

// bodySystemPrompt constrains the model to slide body copy only.
const bodySystemPrompt = "You are an expert presentation writer who creates concise, bulleted slide content. " +
	"Respond only with the body copy for the slide. Do not include slide numbers, titles, " +
	"or any assistant preamble or postscript."

// noFeedbackPlaceholder is embedded verbatim in the enriched prompt when a
// topic has no history.
const noFeedbackPlaceholder = "No relevant feedback found."

// leadingNumbering matches "1.", "2)", "3 -" style tokens the model prefixes
// to titles despite instructions.
var leadingNumbering = regexp.MustCompile(`^\d+[).\s-]*`)

// FeedbackReader is the slice of the feedback store the enricher needs.
type FeedbackReader interface {
	StoreAIFeedback(topic string, slideNumber int, feedback string) error
	RetrieveCommonFeedback(topic string) ([]string, error)
}

// EnricherService turns a presentation request into exactly num_slides
// (title, body) pairs, using the external model and historical feedback as
// guidance. Validation is defensive throughout because the model may under-
// or over-deliver.
type EnricherService struct {
	llm         ChatCompleter
	feedback    FeedbackReader
	concurrency int
}

// NewEnricherService creates a new enricher service
func NewEnricherService(llm ChatCompleter, feedback FeedbackReader, concurrency int) *EnricherService {
	if concurrency < 1 {
		concurrency = 4
	}
	return &EnricherService{llm: llm, feedback: feedback, concurrency: concurrency}
}

// GenerateSlideTitles asks the model for exactly numSlides numbered titles.
// The response is split on line breaks, leading numbering tokens are
// stripped, and blank lines dropped. Fewer parsed titles than requested is
// an InsufficientContentError; extra titles are truncated in order.
func (s *EnricherService) GenerateSlideTitles(ctx context.Context, topic string, numSlides int) ([]string, error) {
	prompt := fmt.Sprintf(`You are an AI expert creating a PowerPoint on "%s".
Generate %d unique, structured slide titles.

Rules:
- Each slide must focus on a different aspect of the topic.
- Do NOT summarize. Ensure diverse subtopics.
- Titles should be concise, specific, and engaging (max 6 words).
- Follow a logical progression from introduction to key insights.

Output format:
1. Slide Title
2. Slide Title
3. Slide Title
...`, topic, numSlides)

	response, err := s.llm.Complete(ctx, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("title generation failed: %w", err)
	}

	titles := parseTitles(response)
	if len(titles) < numSlides {
		return nil, &InsufficientContentError{Expected: numSlides, Got: len(titles)}
	}
	return titles[:numSlides], nil
}

func parseTitles(response string) []string {
	var titles []string
	for _, line := range strings.Split(response, "\n") {
		cleaned := strings.TrimSpace(line)
		if cleaned == "" {
			continue
		}
		cleaned = strings.TrimSpace(leadingNumbering.ReplaceAllString(cleaned, ""))
		cleaned = strings.Trim(cleaned, "*")
		if cleaned != "" {
			titles = append(titles, cleaned)
		}
	}
	return titles
}

// FallbackTitles returns the deterministic placeholder sequence used when
// title generation fails. Never errors.
func FallbackTitles(topic string, numSlides int) []string {
	titles := make([]string, numSlides)
	for i := range titles {
		titles[i] = fmt.Sprintf("Slide %d: %s", i+1, topic)
	}
	return titles
}

// EnrichPrompt builds the shared generation context for a request: audience,
// duration, purpose, historical feedback, and the exact slide count
// instruction. The raw enriched text is returned as-is; splitting into
// per-slide pieces is the pipeline's job. Model failures yield an
// explanatory placeholder string, never an error.
func (s *EnricherService) EnrichPrompt(ctx context.Context, req models.PresentationRequest) string {
	pastFeedback := noFeedbackPlaceholder
	entries, err := s.feedback.RetrieveCommonFeedback(req.Topic)
	if err != nil {
		// Feedback history is guidance, never a hard dependency.
		log.Printf("⚠️  [ENRICHER] Failed to retrieve feedback for %q: %v", req.Topic, err)
	} else if len(entries) > 0 {
		pastFeedback = strings.Join(entries, "; ")
	}

	prompt := fmt.Sprintf(`You are creating a %d-slide PowerPoint on "%s".
- Audience: %s
- Duration: %d minutes
- Purpose: %s
- Past feedback considered: %s

Rules:
- Generate EXACTLY %d slides (no more, no less).
- Each slide MUST be a unique subtopic (no summarization).
- Use clear bullet points, not paragraphs.
- No duplicate content across slides.`,
		req.NumSlides, req.Topic, req.Audience, req.Duration, req.Purpose, pastFeedback, req.NumSlides)

	enriched, err := s.llm.Complete(ctx, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		log.Printf("⚠️  [ENRICHER] Enrichment call failed for %q: %v", req.Topic, err)
		return fmt.Sprintf("Error generating enriched content: %v", err)
	}

	if strings.TrimSpace(req.Topic) != "" {
		if err := s.feedback.StoreAIFeedback(req.Topic, models.WholePresentationSlide, enriched); err != nil {
			log.Printf("⚠️  [ENRICHER] Failed to store enrichment feedback: %v", err)
		}
	}

	return enriched
}

// GenerateSlideBodies issues one model call per slide, fanned out under a
// bounded limit, and collects results by index so slide order is preserved.
// Any empty body or count mismatch fails the whole request.
func (s *EnricherService) GenerateSlideBodies(ctx context.Context, req models.PresentationRequest, titles []string, enrichedPrompt string) ([]string, error) {
	if len(titles) != req.NumSlides {
		return nil, &SlideCountMismatchError{Expected: req.NumSlides, Got: len(titles)}
	}

	bodies := make([]string, req.NumSlides)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := 0; i < req.NumSlides; i++ {
		g.Go(func() error {
			userPrompt := fmt.Sprintf("Slide %d: %s\n%s\nEnsure %d slides.", i+1, titles[i], enrichedPrompt, req.NumSlides)
			content, err := s.llm.Complete(gctx, []ChatMessage{
				{Role: "system", Content: bodySystemPrompt},
				{Role: "user", Content: userPrompt},
			})
			if err != nil {
				return fmt.Errorf("body generation for slide %d failed: %w", i+1, err)
			}
			if content == "" {
				return &EmptyContentError{Slide: i + 1}
			}
			bodies[i] = content
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	got := 0
	for _, body := range bodies {
		if body != "" {
			got++
		}
	}
	if got != req.NumSlides {
		return nil, &SlideCountMismatchError{Expected: req.NumSlides, Got: got}
	}

	for i, body := range bodies {
		if err := s.feedback.StoreAIFeedback(req.Topic, i+1, body); err != nil {
			log.Printf("⚠️  [ENRICHER] Failed to store slide %d feedback: %v", i+1, err)
		}
	}

	return bodies, nil
}

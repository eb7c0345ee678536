// Package format is the deterministic slide formatting engine: text cleanup,
// summarization, bullet styling, and layout styling applied to an assembled
// deck. Every transformation is idempotent so re-formatting a formatted deck
// is a no-op.
package format

import (
	"regexp"
	"strings"

	"slideforge/internal/deck"
	"slideforge/internal/models"
)

// Styling defaults and bounds. MinBodyFontSize is the floor the overflow
// heuristic never crosses.
const (
	HeaderFontSize     = 32
	BodyFontSize       = 22
	ShrunkBodyFontSize = 18
	MinBodyFontSize    = 14

	// Overflow thresholds in characters of paragraph text.
	shrinkThreshold = 300
	floorThreshold  = 500

	DefaultHeaderColor  = "#00008B"
	DefaultContentColor = "#000000"

	// MaxBodyWords caps a paragraph before truncation kicks in.
	MaxBodyWords = 50

	// divider replaces a bare markdown horizontal rule.
	horizontalRule = "---"
	divider        = "────────────────────"
)

// boilerplatePhrases are conversational artifacts the model wraps around
// slide copy. Matched case-sensitively.
var boilerplatePhrases = []string{
	"Sure! Here's your slide:",
	"Sure! Here is your slide:",
	"Here's your slide:",
	"Here is the slide content:",
	"Certainly! Here is the content:",
	"I hope this helps!",
	"Let me know if you need anything else.",
}

// markerPattern strips visual-enhancement and suggestion markers the model
// appends to slide copy. Matched case-insensitively, whole line including its
// line break so no blank seam is left behind.
var markerPattern = regexp.MustCompile(`(?im)^[ \t]*(?:visual enhancements?|suggestions?|speaker notes?)[ \t]*:[^\n]*\n?`)

// styleTokenPattern strips stray formatting-instruction tokens the model
// echoes back, only when followed by whitespace.
var styleTokenPattern = regexp.MustCompile(`(?:Bold|Italic|Underline):?\s`)

// subheaderKeywords classify a paragraph as a section sub-header.
var subheaderKeywords = []string{
	"Introduction", "Overview", "Impact", "Analysis", "Examples",
	"Benefits", "Challenges", "Trends", "Case Studies", "Conclusion",
}

// CleanSlideText strips conversational boilerplate, marker lines, and stray
// style tokens, and swaps a bare horizontal rule for a fixed divider.
// Idempotent: CleanSlideText(CleanSlideText(x)) == CleanSlideText(x).
func CleanSlideText(text string) string {
	// Stripping runs to a fixed point: a removal can butt two halves of a
	// phrase together, and idempotency must hold for any input.
	for {
		stripped := text
		for _, phrase := range boilerplatePhrases {
			stripped = strings.ReplaceAll(stripped, phrase, "")
		}
		stripped = markerPattern.ReplaceAllString(stripped, "")
		stripped = styleTokenPattern.ReplaceAllString(stripped, "")
		stripped = strings.ReplaceAll(stripped, horizontalRule, divider)
		if stripped == text {
			break
		}
		text = stripped
	}

	// Collapse the seams left by removed phrases.
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" && len(kept) > 0 && kept[len(kept)-1] == "" {
			continue
		}
		if strings.TrimSpace(trimmed) == "" {
			trimmed = ""
		}
		kept = append(kept, trimmed)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// SummarizeIfNeeded truncates text to its first 50 words, appending a
// continuation marker to the final word. A text at or under 50 words is
// returned unchanged, so re-running on truncated output is a no-op.
func SummarizeIfNeeded(text string) string {
	words := strings.Fields(text)
	if len(words) <= MaxBodyWords {
		return text
	}
	return strings.Join(words[:MaxBodyWords], " ") + "..."
}

// IsSubheader reports whether a paragraph reads as a section sub-header:
// it contains one of the fixed section keywords, or it is short and carries
// a colon.
func IsSubheader(text string) bool {
	for _, keyword := range subheaderKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return len(text) < 50 && strings.Contains(text, ":")
}

// ApplySmartBulleting prefixes a bullet glyph unless the text is empty,
// already bulleted, hyphen-led, or carries the literal "Numbers" token.
// Idempotent after first application.
func ApplySmartBulleting(text string) string {
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "•") || strings.HasPrefix(text, "-") || strings.HasPrefix(text, "Numbers") {
		return text
	}
	return "• " + text
}

// Styles carries the per-request styling resolved from the request and the
// default table.
type Styles struct {
	FontChoice   string
	HeaderColor  string
	ContentColor string
}

// ResolveStyles fills styling from request preferences with the fixed
// default table.
func ResolveStyles(prefs models.UserPreferences) Styles {
	s := Styles{
		FontChoice:   prefs.FontChoice,
		HeaderColor:  prefs.HeaderColor,
		ContentColor: prefs.ColorScheme,
	}
	if s.FontChoice == "" {
		s.FontChoice = "Arial"
	}
	if s.HeaderColor == "" {
		s.HeaderColor = DefaultHeaderColor
	}
	if s.ContentColor == "" {
		s.ContentColor = DefaultContentColor
	}
	return s
}

// FormatSlide normalizes and styles one slide in place: every paragraph is
// cleaned, summarized, and bulleted (in that order, text replaced only when
// changed); the title is centered, enlarged, bolded, and header-colored;
// body paragraphs are left-aligned, content-colored, and shrunk when they
// overflow the bounding region.
func FormatSlide(slide *deck.Slide, styles Styles) {
	paragraphs := append([]*deck.Paragraph{&slide.Title}, slide.Body...)
	for _, p := range paragraphs {
		if formatted := ApplySmartBulleting(SummarizeIfNeeded(CleanSlideText(p.Text))); formatted != p.Text {
			p.Text = formatted
		}
		p.FontName = styles.FontChoice
	}

	slide.Title.Alignment = deck.AlignCenter
	slide.Title.FontSize = HeaderFontSize
	slide.Title.Bold = true
	slide.Title.Color = styles.HeaderColor

	for _, p := range slide.Body {
		p.Alignment = deck.AlignLeft
		p.FontSize = fitBodyFontSize(p.Text)
		p.Color = styles.ContentColor

		if IsSubheader(p.Text) {
			p.Bold = true
			p.Italic = true
			p.Underline = true
		}
	}
}

// fitBodyFontSize is the length-based overflow heuristic: the renderer has
// no automatic text-fit sizing, so long paragraphs step down from the
// default size toward the floor.
func fitBodyFontSize(text string) int {
	switch {
	case len(text) > floorThreshold:
		return MinBodyFontSize
	case len(text) > shrinkThreshold:
		return ShrunkBodyFontSize
	default:
		return BodyFontSize
	}
}

// ApplyFormatting runs the formatting engine over an assembled deck: a flat
// background fill on every slide, then per-slide text styling.
func ApplyFormatting(d *deck.Deck, prefs models.UserPreferences, background string) {
	if background == "" {
		background = "#FFFFFF"
	}
	styles := ResolveStyles(prefs)
	for _, slide := range d.Slides {
		slide.Background = background
		FormatSlide(slide, styles)
	}
}

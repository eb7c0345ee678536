// Package deck holds the in-memory presentation model the formatting engine
// operates on, plus PPTX rendering and preview extraction built on GoPPT.
package deck

import (
	"fmt"

	"slideforge/internal/models"
)

// Alignment is paragraph-level horizontal alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

// Paragraph is one styled run of slide text.
type Paragraph struct {
	Text      string
	Alignment Alignment
	FontName  string
	FontSize  int // points; zero means renderer default
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // "#RRGGBB"; empty means renderer default
}

// Slide is one titled slide with body paragraphs and a flat background fill.
type Slide struct {
	Index      int
	Title      Paragraph
	Body       []*Paragraph
	Background string // "#RRGGBB"
}

// Deck is an ordered slide collection for one request.
type Deck struct {
	Topic  string
	Slides []*Slide
}

// Assemble pairs titles[i] with bodies[i] into ordered slides with 0-based
// contiguous indices. Each body is split on line breaks into paragraphs.
func Assemble(topic string, titles, bodies []string) (*Deck, error) {
	if len(titles) != len(bodies) {
		return nil, fmt.Errorf("cannot assemble deck: %d titles but %d bodies", len(titles), len(bodies))
	}

	d := &Deck{Topic: topic}
	for i := range titles {
		slide := &Slide{
			Index: i,
			Title: Paragraph{Text: titles[i]},
		}
		for _, line := range splitLines(bodies[i]) {
			slide.Body = append(slide.Body, &Paragraph{Text: line})
		}
		d.Slides = append(d.Slides, slide)
	}
	return d, nil
}

// Specs converts the deck back to the flat slide collection.
func (d *Deck) Specs() []models.SlideSpec {
	specs := make([]models.SlideSpec, len(d.Slides))
	for i, s := range d.Slides {
		body := ""
		for j, p := range s.Body {
			if j > 0 {
				body += "\n"
			}
			body += p.Text
		}
		specs[i] = models.SlideSpec{Index: s.Index, Title: s.Title.Text, Body: body}
	}
	return specs
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line := text[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			if line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

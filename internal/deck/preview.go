package deck

import (
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// ExtractPreview reads a saved .pptx artifact and returns its per-slide text,
// each slide rendered as "Slide N:" followed by the concatenated shape text,
// slides separated by blank lines.
func ExtractPreview(path string) (string, error) {
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PPT file: %w", err)
	}

	slides := pres.GetAllSlides()
	if len(slides) == 0 {
		return "", fmt.Errorf("PPT file has no slides")
	}

	sections := make([]string, 0, len(slides))
	for i, slide := range slides {
		var lines []string
		for _, shape := range slide.GetShapes() {
			rts, ok := shape.(*ppt.RichTextShape)
			if !ok {
				continue
			}
			for _, para := range rts.GetParagraphs() {
				var text strings.Builder
				for _, elem := range para.GetElements() {
					if run, ok := elem.(*ppt.TextRun); ok {
						text.WriteString(run.GetText())
					}
				}
				if t := strings.TrimSpace(text.String()); t != "" {
					lines = append(lines, t)
				}
			}
		}
		sections = append(sections, fmt.Sprintf("Slide %d:\n%s", i+1, strings.Join(lines, "\n")))
	}

	return strings.Join(sections, "\n\n"), nil
}

// SlideCount reads a saved artifact and returns its slide count.
func SlideCount(path string) (int, error) {
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PPT file: %w", err)
	}
	return len(pres.GetAllSlides()), nil
}

package deck

import (
	"bytes"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Slide layout constants, 16:9 widescreen.
const (
	emuPerInch = 914400

	slideWidth  = int64(13.33 * emuPerInch)
	slideHeight = int64(7.5 * emuPerInch)

	titleOffsetX = int64(1.0 * emuPerInch)
	titleOffsetY = int64(0.3 * emuPerInch)
	titleWidth   = int64(11.33 * emuPerInch)
	titleHeight  = int64(1.0 * emuPerInch)

	bodyOffsetX = int64(1.0 * emuPerInch)
	bodyOffsetY = int64(1.5 * emuPerInch)
	bodyWidth   = int64(11.33 * emuPerInch)
	bodyHeight  = int64(5.3 * emuPerInch)

	defaultTitleSize = 32
	defaultBodySize  = 22
)

// Render writes the deck as a PowerPoint 2007 (.pptx) document.
func Render(d *Deck) ([]byte, error) {
	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("cannot render empty deck")
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = d.Topic
	p.GetDocumentProperties().Creator = "slideforge"

	for i, slide := range d.Slides {
		var target *ppt.Slide
		if i == 0 {
			target = p.GetActiveSlide()
		} else {
			target = p.CreateSlide()
		}
		renderSlide(target, slide)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSlide(target *ppt.Slide, slide *Slide) {
	// Flat background fill, drawn first so it sits behind the text shapes.
	if slide.Background != "" {
		bg := target.CreateRichTextShape()
		bg.SetOffsetX(0).SetOffsetY(0)
		bg.SetWidth(slideWidth).SetHeight(slideHeight)
		bg.SetFill(solidFill(argb(slide.Background)))
	}

	titleShape := target.CreateRichTextShape()
	titleShape.SetOffsetX(titleOffsetX).SetOffsetY(titleOffsetY)
	titleShape.SetWidth(titleWidth).SetHeight(titleHeight)
	renderParagraph(titleShape, &slide.Title, defaultTitleSize, false)

	if len(slide.Body) == 0 {
		return
	}

	bodyShape := target.CreateRichTextShape()
	bodyShape.SetOffsetX(bodyOffsetX).SetOffsetY(bodyOffsetY)
	bodyShape.SetWidth(bodyWidth).SetHeight(bodyHeight)
	for j, p := range slide.Body {
		renderParagraph(bodyShape, p, defaultBodySize, j > 0)
	}
}

func renderParagraph(shape *ppt.RichTextShape, p *Paragraph, defaultSize int, newParagraph bool) {
	if newParagraph {
		shape.CreateParagraph()
	}

	tr := shape.CreateTextRun(p.Text)
	font := tr.GetFont()

	size := p.FontSize
	if size == 0 {
		size = defaultSize
	}
	font.SetSize(size)

	if p.FontName != "" {
		font.SetName(p.FontName)
	}
	if p.Bold {
		font.SetBold(true)
	}
	if p.Italic {
		font.SetItalic(true)
	}
	if p.Underline {
		font.SetUnderline(ppt.UnderlineSingle)
	}
	if p.Color != "" {
		font.SetColor(ppt.NewColor(argb(p.Color)))
	}

	if p.Alignment == AlignCenter {
		shape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
	}
}

func solidFill(color string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(color))
}

// argb converts "#RRGGBB" to GoPPT's opaque "FFRRGGBB" form.
func argb(hex string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return "FF000000"
	}
	return "FF" + strings.ToUpper(hex)
}

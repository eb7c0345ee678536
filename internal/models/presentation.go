package models

// PresentationRequest is the inbound payload for POST /generate_ppt.
// Constructed once per call, immutable after defaults are applied.
type PresentationRequest struct {
	Topic           string `json:"topic"`
	NumSlides       int    `json:"num_slides"`
	Audience        string `json:"audience"`
	Duration        int    `json:"duration"` // minutes
	Purpose         string `json:"purpose"`
	DesignStyle     string `json:"design_style"`
	FontChoice      string `json:"font_choice"`
	ColorScheme     string `json:"color_scheme"` // hex, used as the body font color
	AdditionalNotes string `json:"additional_notes"`
}

// MinSlides and MaxSlides bound num_slides; anything outside is a client
// input error and never reaches the model.
const (
	MinSlides = 1
	MaxSlides = 20
)

// ApplyDefaults fills the documented defaults for every omitted free-text field.
func (r *PresentationRequest) ApplyDefaults() {
	if r.Audience == "" {
		r.Audience = "General Public"
	}
	if r.Duration == 0 {
		r.Duration = 20
	}
	if r.Purpose == "" {
		r.Purpose = "Explain the topic clearly to the audience."
	}
	if r.DesignStyle == "" {
		r.DesignStyle = "Minimalist"
	}
	if r.FontChoice == "" {
		r.FontChoice = "Arial"
	}
	if r.ColorScheme == "" {
		r.ColorScheme = "#000000"
	}
}

// SlideSpec is one assembled slide: in-memory only, never persisted.
// For one request the sequence has length exactly num_slides, ordered,
// with 0-based contiguous indices.
type SlideSpec struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

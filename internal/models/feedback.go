package models

import "time"

// WholePresentationSlide is the sentinel slide number marking a feedback row
// as describing the whole presentation rather than one slide.
const WholePresentationSlide = 0

// AIFeedback is one AI-generated text tied to a topic. Append-only.
type AIFeedback struct {
	ID          int       `json:"id"`
	Topic       string    `json:"topic"`
	SlideNumber int       `json:"slide_number"`
	Feedback    string    `json:"feedback"`
	Timestamp   time.Time `json:"timestamp"`
}

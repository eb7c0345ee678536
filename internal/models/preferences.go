package models

import "time"

// UserPreferences is the last-known styling snapshot for a topic. It is not
// authoritative: generation requests always carry explicit values that
// override whatever is stored here.
type UserPreferences struct {
	Topic        string    `json:"topic"`
	NumSlides    int       `json:"num_slides"`
	FontChoice   string    `json:"font_choice"`
	ColorScheme  string    `json:"color_scheme"`
	BulletStyle  string    `json:"bullet_style"`
	HeaderColor  string    `json:"header_color"`
	BodyFontSize int       `json:"body_font_size"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
}

// DefaultPreferences returns the fixed default styling table.
func DefaultPreferences(topic string, numSlides int) UserPreferences {
	return UserPreferences{
		Topic:        topic,
		NumSlides:    numSlides,
		FontChoice:   "Arial",
		ColorScheme:  "#000000",
		BulletStyle:  "Dots",
		HeaderColor:  "#00008B",
		BodyFontSize: 22,
	}
}

package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slideforge/internal/database"
	"slideforge/internal/models"
)

// ErrNoPreferences is returned when a topic has no stored preference snapshot.
var ErrNoPreferences = errors.New("no preferences found for topic")

// FeedbackService persists AI-produced slide text and user feedback, keyed by
// topic. AI rows are append-only; user rows are weighted by repetition.
type FeedbackService struct {
	db *database.DB
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(db *database.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// StoreAIFeedback appends one AI-generated text for a topic. Slide number 0
// marks a whole-presentation summary. Callers treat failures as non-fatal:
// a lost feedback row must never block slide generation.
func (s *FeedbackService) StoreAIFeedback(topic string, slideNumber int, feedback string) error {
	_, err := s.db.Exec(`
		INSERT INTO ai_feedback (topic, slide_number, feedback) VALUES (?, ?, ?)
	`, topic, slideNumber, feedback)
	if err != nil {
		return fmt.Errorf("failed to store AI feedback: %w", err)
	}
	return nil
}

// StoreUserFeedback stores a user-submitted text. A repeated (topic, feedback)
// pair increments its weightage instead of inserting a duplicate row.
func (s *FeedbackService) StoreUserFeedback(topic, feedback string) error {
	var id, weightage int
	err := s.db.QueryRow(`
		SELECT id, weightage FROM user_feedback WHERE topic = ? AND feedback = ?
	`, topic, feedback).Scan(&id, &weightage)

	switch {
	case err == nil:
		if _, err := s.db.Exec(`UPDATE user_feedback SET weightage = ? WHERE id = ?`, weightage+1, id); err != nil {
			return fmt.Errorf("failed to bump feedback weightage: %w", err)
		}
		return nil
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec(`
			INSERT INTO user_feedback (topic, feedback, weightage) VALUES (?, ?, 1)
		`, topic, feedback); err != nil {
			return fmt.Errorf("failed to store user feedback: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to look up user feedback: %w", err)
	}
}

// RetrieveCommonFeedback returns up to 5 most recent AI-generated feedback
// texts for the topic, newest first. A topic with no history yields an empty
// slice, not an error.
func (s *FeedbackService) RetrieveCommonFeedback(topic string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT feedback FROM ai_feedback WHERE topic = ? ORDER BY timestamp DESC, id DESC LIMIT 5
	`, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to query AI feedback: %w", err)
	}
	defer rows.Close()

	feedback := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan AI feedback: %w", err)
		}
		feedback = append(feedback, text)
	}
	return feedback, rows.Err()
}

// RetrievePastFeedback returns up to 5 user-submitted feedback texts for the
// topic, most heavily weighted first.
func (s *FeedbackService) RetrievePastFeedback(topic string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT feedback FROM user_feedback WHERE topic = ? ORDER BY weightage DESC, id ASC LIMIT 5
	`, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to query user feedback: %w", err)
	}
	defer rows.Close()

	feedback := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan user feedback: %w", err)
		}
		feedback = append(feedback, text)
	}
	return feedback, rows.Err()
}

// StoreUserPreferences appends a styling snapshot for a topic. Retrieval is
// last-write-wins, so concurrent writers for the same topic may interleave;
// that is accepted for this domain.
func (s *FeedbackService) StoreUserPreferences(p models.UserPreferences) error {
	_, err := s.db.Exec(`
		INSERT INTO user_preferences (topic, num_slides, font_choice, color_scheme, bullet_style, header_color, body_font_size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Topic, p.NumSlides, p.FontChoice, p.ColorScheme, p.BulletStyle, p.HeaderColor, p.BodyFontSize)
	if err != nil {
		return fmt.Errorf("failed to store user preferences: %w", err)
	}
	return nil
}

// RetrieveUserPreferences returns the single most recent preference snapshot
// for the topic, or ErrNoPreferences.
func (s *FeedbackService) RetrieveUserPreferences(topic string) (*models.UserPreferences, error) {
	p := models.UserPreferences{Topic: topic}
	var timestamp string
	err := s.db.QueryRow(`
		SELECT num_slides, font_choice, color_scheme, bullet_style, header_color, body_font_size, timestamp
		FROM user_preferences WHERE topic = ? ORDER BY timestamp DESC, id DESC LIMIT 1
	`, topic).Scan(&p.NumSlides, &p.FontChoice, &p.ColorScheme, &p.BulletStyle, &p.HeaderColor, &p.BodyFontSize, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPreferences
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	// SQLite stores CURRENT_TIMESTAMP as "YYYY-MM-DD HH:MM:SS" text.
	if ts, err := time.Parse("2006-01-02 15:04:05", timestamp); err == nil {
		p.Timestamp = ts
	}
	return &p, nil
}

// PurgeAIFeedbackOlderThan deletes AI feedback rows older than cutoff and
// returns the number of rows removed. User feedback is never purged: the
// weightage column is the product's long-term memory.
func (s *FeedbackService) PurgeAIFeedbackOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM ai_feedback WHERE timestamp < ?`, cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("failed to purge AI feedback: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens (creating if necessary) the single-file SQLite store at path.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// busy_timeout lets concurrent requests for the same topic serialize on
	// the row write instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are short-lived, single-row statements; one writer at a time
	// matches SQLite's own locking model.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ SQLite database connected (%s)", path)

	return &DB{db}, nil
}

// Initialize creates the feedback and preference tables if they do not exist.
// Safe to call on every startup.
func (db *DB) Initialize() error {
	log.Println("🔍 Checking database schema...")

	schema := []string{
		`CREATE TABLE IF NOT EXISTS ai_feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			slide_number INTEGER NOT NULL,
			feedback TEXT NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			feedback TEXT NOT NULL,
			weightage INTEGER DEFAULT 1,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			num_slides INTEGER NOT NULL,
			font_choice TEXT DEFAULT 'Arial',
			color_scheme TEXT DEFAULT '#000000',
			bullet_style TEXT DEFAULT 'Dots',
			header_color TEXT DEFAULT '#00008B',
			body_font_size INTEGER DEFAULT 22,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_feedback_topic ON ai_feedback(topic, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_user_feedback_topic ON user_feedback(topic, feedback)`,
		`CREATE INDEX IF NOT EXISTS idx_user_preferences_topic ON user_preferences(topic, timestamp)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	log.Println("✅ Database initialized successfully")
	return nil
}

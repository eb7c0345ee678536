package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"slideforge/internal/database"
	"slideforge/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize())
	return db
}

func TestStoreUserFeedbackWeightsRepeats(t *testing.T) {
	svc := NewFeedbackService(newTestDB(t))

	require.NoError(t, svc.StoreUserFeedback("solar", "more charts"))
	require.NoError(t, svc.StoreUserFeedback("solar", "more charts"))
	require.NoError(t, svc.StoreUserFeedback("solar", "shorter bullets"))

	var count, weightage int
	err := svc.db.QueryRow(`SELECT COUNT(*), MAX(weightage) FROM user_feedback WHERE topic = ?`, "solar").Scan(&count, &weightage)
	require.NoError(t, err)
	require.Equal(t, 2, count, "repeated feedback must not duplicate rows")
	require.Equal(t, 2, weightage, "repeated feedback must bump weightage")
}

func TestRetrievePastFeedbackOrdersByWeight(t *testing.T) {
	svc := NewFeedbackService(newTestDB(t))

	require.NoError(t, svc.StoreUserFeedback("solar", "lighter background"))
	require.NoError(t, svc.StoreUserFeedback("solar", "more charts"))
	require.NoError(t, svc.StoreUserFeedback("solar", "more charts"))

	feedback, err := svc.RetrievePastFeedback("solar")
	require.NoError(t, err)
	require.Equal(t, []string{"more charts", "lighter background"}, feedback)
}

func TestRetrieveCommonFeedback(t *testing.T) {
	svc := NewFeedbackService(newTestDB(t))

	feedback, err := svc.RetrieveCommonFeedback("unknown")
	require.NoError(t, err)
	require.Empty(t, feedback, "unknown topic yields an empty slice, not an error")

	for i := 0; i < 7; i++ {
		require.NoError(t, svc.StoreAIFeedback("solar", i+1, "body "+string(rune('a'+i))))
	}

	feedback, err = svc.RetrieveCommonFeedback("solar")
	require.NoError(t, err)
	require.Len(t, feedback, 5)
	require.Equal(t, "body g", feedback[0], "newest entries come first")
}

func TestUserPreferencesLastWriteWins(t *testing.T) {
	svc := NewFeedbackService(newTestDB(t))

	_, err := svc.RetrieveUserPreferences("solar")
	require.ErrorIs(t, err, ErrNoPreferences)

	first := models.DefaultPreferences("solar", 5)
	require.NoError(t, svc.StoreUserPreferences(first))

	second := models.DefaultPreferences("solar", 8)
	second.FontChoice = "Calibri"
	require.NoError(t, svc.StoreUserPreferences(second))

	got, err := svc.RetrieveUserPreferences("solar")
	require.NoError(t, err)
	require.Equal(t, 8, got.NumSlides)
	require.Equal(t, "Calibri", got.FontChoice)
}

func TestPurgeAIFeedbackOlderThan(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)

	// One stale row with an explicit old timestamp, one fresh row.
	_, err := db.Exec(`INSERT INTO ai_feedback (topic, slide_number, feedback, timestamp) VALUES (?, ?, ?, ?)`,
		"solar", 1, "stale", "2020-01-01 00:00:00")
	require.NoError(t, err)
	require.NoError(t, svc.StoreAIFeedback("solar", 2, "fresh"))
	require.NoError(t, svc.StoreUserFeedback("solar", "keep me"))

	deleted, err := svc.PurgeAIFeedbackOlderThan(time.Now().UTC().AddDate(0, 0, -90))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	feedback, err := svc.RetrieveCommonFeedback("solar")
	require.NoError(t, err)
	require.Equal(t, []string{"fresh"}, feedback)

	// User feedback is never purged.
	userFeedback, err := svc.RetrievePastFeedback("solar")
	require.NoError(t, err)
	require.Equal(t, []string{"keep me"}, userFeedback)
}

package jobs

import (
	"context"
	"log"
	"time"

	"slideforge/internal/services"
)

// RetentionCleanupJob purges AI-generated feedback rows older than the
// configured retention window. User-submitted feedback is never purged:
// its weightage is the product's long-term memory. Runs daily at 2 AM UTC.
type RetentionCleanupJob struct {
	feedbackService *services.FeedbackService
	retentionDays   int
}

// NewRetentionCleanupJob creates a new retention cleanup job
func NewRetentionCleanupJob(feedbackService *services.FeedbackService, retentionDays int) *RetentionCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &RetentionCleanupJob{
		feedbackService: feedbackService,
		retentionDays:   retentionDays,
	}
}

// Run executes the retention cleanup
func (j *RetentionCleanupJob) Run(ctx context.Context) error {
	log.Printf("[RETENTION] Starting AI feedback cleanup (retention: %d days)...", j.retentionDays)
	startTime := time.Now()

	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.feedbackService.PurgeAIFeedbackOlderThan(cutoff)
	if err != nil {
		log.Printf("[RETENTION] Cleanup failed: %v", err)
		return err
	}

	log.Printf("[RETENTION] Cleanup complete: %d rows deleted in %v", deleted, time.Since(startTime))
	return nil
}

// GetNextRunTime returns when the job should run next (daily at 2 AM UTC)
func (j *RetentionCleanupJob) GetNextRunTime() time.Time {
	now := time.Now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

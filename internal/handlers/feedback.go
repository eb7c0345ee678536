package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"slideforge/internal/services"
)

// FeedbackHandler handles user feedback submission and stored preference
// retrieval.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	metrics         *services.Metrics
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *services.FeedbackService, metrics *services.Metrics) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, metrics: metrics}
}

type feedbackRequest struct {
	Topic    string `json:"topic"`
	Feedback string `json:"feedback"`
}

// Submit stores one piece of user feedback. A repeated (topic, feedback)
// pair bumps its weight instead of duplicating.
// POST /feedback
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body: expected JSON",
		})
	}

	req.Topic = strings.TrimSpace(req.Topic)
	req.Feedback = strings.TrimSpace(req.Feedback)
	if req.Topic == "" || req.Feedback == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Both topic and feedback are required",
		})
	}

	if err := h.feedbackService.StoreUserFeedback(req.Topic, req.Feedback); err != nil {
		log.Printf("❌ [FEEDBACK] Failed to store feedback for %q: %v", req.Topic, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Failed to store feedback",
		})
	}

	if h.metrics != nil {
		h.metrics.FeedbackSubmissions.Inc()
	}

	return c.JSON(fiber.Map{"message": "Feedback recorded"})
}

// Preferences returns the most recent styling snapshot for a topic.
// GET /preferences/:topic
func (h *FeedbackHandler) Preferences(c *fiber.Ctx) error {
	topic := strings.TrimSpace(c.Params("topic"))
	if topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Topic is required",
		})
	}

	prefs, err := h.feedbackService.RetrieveUserPreferences(topic)
	if errors.Is(err, services.ErrNoPreferences) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "No preferences found for topic",
		})
	}
	if err != nil {
		log.Printf("❌ [FEEDBACK] Failed to load preferences for %q: %v", topic, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Failed to load preferences",
		})
	}

	return c.JSON(prefs)
}
